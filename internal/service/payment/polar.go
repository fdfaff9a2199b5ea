package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	polargo "github.com/polarsource/polar-go"
	"github.com/polarsource/polar-go/models/components"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/content365/content365/internal/config"
	"github.com/content365/content365/internal/model"
)

type PolarProvider struct {
	cfg    *config.Config
	client *polargo.Polar
}

func NewPolarProvider(cfg *config.Config) *PolarProvider {
	var serverOption polargo.SDKOption
	if cfg.PolarSandboxMode {
		serverOption = polargo.WithServer(polargo.ServerSandbox)
		slog.Info("polar using sandbox mode", "app_env", cfg.AppEnv)
	} else {
		serverOption = polargo.WithServer(polargo.ServerProduction)
		slog.Info("polar using production mode", "app_env", cfg.AppEnv)
	}

	client := polargo.New(
		polargo.WithSecurity(cfg.PolarAPIKey),
		serverOption,
	)

	return &PolarProvider{
		cfg:    cfg,
		client: client,
	}
}

func (p *PolarProvider) Name() string {
	return model.ProviderPolar
}

func (p *PolarProvider) CreateCheckoutURL(ctx context.Context, requestID, customerEmail string) (string, error) {
	successURL := fmt.Sprintf("%s/success?session_id={CHECKOUT_ID}", p.cfg.AppURL)

	metadata := map[string]components.CheckoutCreateMetadata{
		"request_id": components.CreateCheckoutCreateMetadataStr(requestID),
	}

	create := components.CheckoutCreate{
		Products:           []string{p.cfg.PolarProductID},
		SuccessURL:         polargo.String(successURL),
		AllowDiscountCodes: polargo.Bool(true),
		Metadata:           metadata,
	}
	if customerEmail != "" {
		create.CustomerEmail = polargo.String(customerEmail)
	}

	res, err := p.client.Checkouts.Create(ctx, create)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout: %w", err)
	}

	if res == nil || res.Checkout == nil {
		return "", fmt.Errorf("checkout response is nil")
	}

	slog.Info("polar checkout created", "request_id", requestID, "checkout_id", res.Checkout.ID)
	return res.Checkout.URL, nil
}

func (p *PolarProvider) CheckoutRequestID(ctx context.Context, sessionID string) (string, error) {
	res, err := p.client.Checkouts.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve checkout: %w", err)
	}

	if res == nil || res.Checkout == nil {
		return "", fmt.Errorf("checkout response is nil")
	}

	status := res.Checkout.Status
	if status != components.CheckoutStatusSucceeded && status != components.CheckoutStatusConfirmed {
		return "", fmt.Errorf("checkout %s has status %s: %w", sessionID, status, ErrNotPaid)
	}

	meta, ok := res.Checkout.Metadata["request_id"]
	if !ok || meta.Str == nil || *meta.Str == "" {
		return "", fmt.Errorf("checkout %s has no request_id in metadata", sessionID)
	}

	return *meta.Str, nil
}

func (p *PolarProvider) HandleWebhook(payload []byte, headers http.Header) error {
	webhookID := headers.Get("webhook-id")
	timestamp := headers.Get("webhook-timestamp")
	signature := headers.Get("webhook-signature")

	if p.cfg.PolarWebhookSecret == "" {
		slog.Warn("polar no webhook secret configured, skipping signature verification")
	} else {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(p.cfg.PolarWebhookSecret))
		if err != nil {
			return fmt.Errorf("failed to create webhook verifier: %w", err)
		}

		httpHeaders := http.Header{}
		httpHeaders.Set("webhook-id", webhookID)
		httpHeaders.Set("webhook-timestamp", timestamp)
		httpHeaders.Set("webhook-signature", signature)

		err = wh.Verify(payload, httpHeaders)
		if err != nil {
			return fmt.Errorf("invalid webhook signature: %w", err)
		}
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	slog.Info("polar webhook received", "event_type", event.Type)

	switch event.Type {
	case "order.created":
		return p.handleOrderCreated(event.Data)
	case "checkout.updated":
		return p.handleCheckoutUpdated(event.Data)
	default:
		slog.Warn("polar webhook unknown event type", "event_type", event.Type)
		return nil
	}
}

// handleOrderCreated records the purchase for audit. The success
// redirect drives generation; the webhook makes paid orders visible
// even when the buyer never returns.
func (p *PolarProvider) handleOrderCreated(data json.RawMessage) error {
	var order struct {
		ID       string            `json:"id"`
		Amount   *int              `json:"amount"`
		Currency *string           `json:"currency"`
		Metadata map[string]string `json:"metadata"`
	}

	err := json.Unmarshal(data, &order)
	if err != nil {
		return fmt.Errorf("failed to parse order data: %w", err)
	}

	requestID := order.Metadata["request_id"]
	if requestID == "" {
		slog.Warn("polar order has no request_id in metadata, skipping")
		return nil
	}

	slog.Info("polar order created", "request_id", requestID, "order_id", order.ID)
	return nil
}

func (p *PolarProvider) handleCheckoutUpdated(data json.RawMessage) error {
	var checkout struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Metadata map[string]string `json:"metadata"`
	}

	err := json.Unmarshal(data, &checkout)
	if err != nil {
		return fmt.Errorf("failed to parse checkout data: %w", err)
	}

	slog.Info("polar checkout updated",
		"request_id", checkout.Metadata["request_id"],
		"checkout_id", checkout.ID,
		"status", checkout.Status,
	)
	return nil
}
