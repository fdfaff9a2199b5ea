package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content365/content365/internal/model"
	"github.com/content365/content365/internal/repository"
	"github.com/content365/content365/internal/service/payment"
)

type fakeProvider struct {
	lastRequestID string
	payForSession map[string]string // session ID -> request ID
	unpaid        bool
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateCheckoutURL(_ context.Context, requestID, _ string) (string, error) {
	p.lastRequestID = requestID
	return "https://checkout.example.com/session-1", nil
}

func (p *fakeProvider) CheckoutRequestID(_ context.Context, sessionID string) (string, error) {
	if p.unpaid {
		return "", payment.ErrNotPaid
	}
	id, ok := p.payForSession[sessionID]
	if !ok {
		return "", payment.ErrNotPaid
	}
	return id, nil
}

func (p *fakeProvider) HandleWebhook([]byte, http.Header) error { return nil }

type memCheckoutRepo struct {
	records map[string]*model.CheckoutRequest
}

func newMemCheckoutRepo() *memCheckoutRepo {
	return &memCheckoutRepo{records: map[string]*model.CheckoutRequest{}}
}

func (r *memCheckoutRepo) Create(req *model.CheckoutRequest) error {
	r.records[req.ID] = req
	return nil
}

func (r *memCheckoutRepo) ByID(id string) (*model.CheckoutRequest, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrCheckoutNotFound
	}
	return rec, nil
}

func (r *memCheckoutRepo) Consume(id string) error {
	rec, ok := r.records[id]
	if !ok {
		return repository.ErrCheckoutNotFound
	}
	if rec.ConsumedAt != nil {
		return repository.ErrCheckoutConsumed
	}
	now := time.Now()
	rec.ConsumedAt = &now
	return nil
}

func (r *memCheckoutRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var n int64
	for id, rec := range r.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func TestCheckoutBeginStoresRequest(t *testing.T) {
	provider := &fakeProvider{}
	repo := newMemCheckoutRepo()
	svc := NewCheckoutService(provider, repo)

	req := &model.ContentRequest{Topic: "paid topic", Email: "buyer@example.com"}

	url, err := svc.Begin(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/session-1", url)

	require.NotEmpty(t, provider.lastRequestID)
	rec, err := repo.ByID(provider.lastRequestID)
	require.NoError(t, err)
	assert.Equal(t, "fake", rec.Provider)
	assert.Nil(t, rec.ConsumedAt)

	var stored model.ContentRequest
	require.NoError(t, json.Unmarshal([]byte(rec.Request), &stored))
	assert.Equal(t, "paid topic", stored.Topic)
	assert.Equal(t, "buyer@example.com", stored.Email)
}

func TestCheckoutCompleteReturnsStoredRequest(t *testing.T) {
	provider := &fakeProvider{payForSession: map[string]string{}}
	repo := newMemCheckoutRepo()
	svc := NewCheckoutService(provider, repo)

	original := &model.ContentRequest{Topic: "paid topic", Tone: "Bold"}
	_, err := svc.Begin(context.Background(), original)
	require.NoError(t, err)
	provider.payForSession["sess-1"] = provider.lastRequestID

	got, err := svc.Complete(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "paid topic", got.Topic)
	assert.Equal(t, "Bold", got.Tone)
}

func TestCheckoutCompleteReplayRejected(t *testing.T) {
	provider := &fakeProvider{payForSession: map[string]string{}}
	repo := newMemCheckoutRepo()
	svc := NewCheckoutService(provider, repo)

	_, err := svc.Begin(context.Background(), &model.ContentRequest{Topic: "once"})
	require.NoError(t, err)
	provider.payForSession["sess-1"] = provider.lastRequestID

	_, err = svc.Complete(context.Background(), "sess-1")
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "sess-1")
	assert.ErrorIs(t, err, repository.ErrCheckoutConsumed)
}

func TestCheckoutCompleteUnpaidSession(t *testing.T) {
	provider := &fakeProvider{unpaid: true}
	svc := NewCheckoutService(provider, newMemCheckoutRepo())

	_, err := svc.Complete(context.Background(), "sess-1")
	assert.ErrorIs(t, err, payment.ErrNotPaid)
}

func TestCheckoutPruneStale(t *testing.T) {
	provider := &fakeProvider{}
	repo := newMemCheckoutRepo()
	svc := NewCheckoutService(provider, repo)

	old := &model.CheckoutRequest{ID: "old", Provider: "fake", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &model.CheckoutRequest{ID: "fresh", Provider: "fake", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(old))
	require.NoError(t, repo.Create(fresh))

	svc.PruneStale(24 * time.Hour)

	_, err := repo.ByID("old")
	assert.ErrorIs(t, err, repository.ErrCheckoutNotFound)
	_, err = repo.ByID("fresh")
	assert.NoError(t, err)
}
