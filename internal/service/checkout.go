package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/content365/content365/internal/model"
	"github.com/content365/content365/internal/repository"
	"github.com/content365/content365/internal/service/payment"
)

// CheckoutService stores a submission server-side, sends the buyer to
// the hosted checkout, and releases the stored submission only after
// the provider confirms payment. The checkout session never carries
// form fields, only the record ID.
type CheckoutService struct {
	provider  payment.Provider
	checkouts repository.CheckoutRepository
}

func NewCheckoutService(provider payment.Provider, checkouts repository.CheckoutRepository) *CheckoutService {
	return &CheckoutService{
		provider:  provider,
		checkouts: checkouts,
	}
}

// Begin persists the submission and returns the checkout URL to
// redirect the buyer to.
func (s *CheckoutService) Begin(ctx context.Context, req *model.ContentRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}

	record := &model.CheckoutRequest{
		ID:        uuid.NewString(),
		Provider:  s.provider.Name(),
		Request:   string(data),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.checkouts.Create(record); err != nil {
		return "", fmt.Errorf("store checkout request: %w", err)
	}

	url, err := s.provider.CreateCheckoutURL(ctx, record.ID, req.Email)
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}

	slog.Info("checkout started", "request_id", record.ID, "provider", record.Provider)
	return url, nil
}

// Complete verifies the session with the provider, claims the stored
// submission, and returns it for generation. A second call with the
// same session fails with repository.ErrCheckoutConsumed.
func (s *CheckoutService) Complete(ctx context.Context, sessionID string) (*model.ContentRequest, error) {
	requestID, err := s.provider.CheckoutRequestID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	record, err := s.checkouts.ByID(requestID)
	if err != nil {
		return nil, err
	}

	if err := s.checkouts.Consume(record.ID); err != nil {
		return nil, err
	}

	req := &model.ContentRequest{}
	if err := json.Unmarshal([]byte(record.Request), req); err != nil {
		return nil, fmt.Errorf("deserialize request: %w", err)
	}

	slog.Info("checkout completed", "request_id", record.ID, "provider", record.Provider)
	return req, nil
}

// HandleWebhook forwards provider webhook events for verification and
// audit logging.
func (s *CheckoutService) HandleWebhook(payload []byte, headers http.Header) error {
	return s.provider.HandleWebhook(payload, headers)
}

// PruneStale deletes unconsumed checkout requests older than the given
// age. Abandoned checkouts otherwise accumulate forever.
func (s *CheckoutService) PruneStale(maxAge time.Duration) {
	n, err := s.checkouts.DeleteOlderThan(time.Now().UTC().Add(-maxAge))
	if err != nil {
		slog.Warn("checkout prune failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("pruned stale checkout requests", "count", n)
	}
}
