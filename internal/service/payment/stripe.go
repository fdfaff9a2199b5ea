package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/content365/content365/internal/config"
	"github.com/content365/content365/internal/model"
)

type StripeProvider struct {
	cfg *config.Config
}

func NewStripeProvider(cfg *config.Config) *StripeProvider {
	// Set Stripe API key
	stripe.Key = cfg.StripeSecretKey

	slog.Info("stripe provider initialized", "app_env", cfg.AppEnv)

	return &StripeProvider{cfg: cfg}
}

func (s *StripeProvider) Name() string {
	return model.ProviderStripe
}

func (s *StripeProvider) CreateCheckoutURL(_ context.Context, requestID, customerEmail string) (string, error) {
	successURL := fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}", s.cfg.AppURL)
	cancelURL := fmt.Sprintf("%s/cancel", s.cfg.AppURL)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"request_id": requestID,
		},
		AllowPromotionCodes: stripe.Bool(true),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	slog.Info("stripe checkout created", "request_id", requestID, "session_id", sess.ID)
	return sess.URL, nil
}

func (s *StripeProvider) CheckoutRequestID(_ context.Context, sessionID string) (string, error) {
	sess, err := checkoutsession.Get(sessionID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return "", fmt.Errorf("session %s has status %s: %w", sessionID, sess.PaymentStatus, ErrNotPaid)
	}

	requestID := sess.Metadata["request_id"]
	if requestID == "" {
		return "", fmt.Errorf("session %s has no request_id in metadata", sessionID)
	}

	return requestID, nil
}

func (s *StripeProvider) HandleWebhook(payload []byte, headers http.Header) error {
	signature := headers.Get("Stripe-Signature")

	// Use ConstructEventWithOptions to ignore API version mismatch
	// Stripe's API versions are backwards compatible, so this is safe
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	slog.Info("stripe webhook received", "event_type", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutSessionCompleted(event.Data.Raw)
	case "checkout.session.expired":
		return s.handleCheckoutSessionExpired(event.Data.Raw)
	default:
		slog.Warn("stripe webhook unknown event type", "event_type", event.Type)
		return nil
	}
}

// handleCheckoutSessionCompleted records the completion for audit. The
// success redirect drives generation; the webhook is a backstop so paid
// sessions are visible even when the buyer never returns.
func (s *StripeProvider) handleCheckoutSessionCompleted(data json.RawMessage) error {
	var checkoutSession struct {
		ID            string            `json:"id"`
		PaymentStatus string            `json:"payment_status"`
		Metadata      map[string]string `json:"metadata"`
	}

	err := json.Unmarshal(data, &checkoutSession)
	if err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	requestID := checkoutSession.Metadata["request_id"]
	if requestID == "" {
		slog.Warn("stripe checkout session has no request_id in metadata, skipping")
		return nil
	}

	slog.Info("stripe checkout completed",
		"request_id", requestID,
		"session_id", checkoutSession.ID,
		"payment_status", checkoutSession.PaymentStatus,
	)
	return nil
}

func (s *StripeProvider) handleCheckoutSessionExpired(data json.RawMessage) error {
	var checkoutSession struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}

	err := json.Unmarshal(data, &checkoutSession)
	if err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	slog.Info("stripe checkout expired",
		"request_id", checkoutSession.Metadata["request_id"],
		"session_id", checkoutSession.ID,
	)
	return nil
}
