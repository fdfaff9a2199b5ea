package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/content365/content365/internal/markdown"
	"github.com/content365/content365/internal/repository"
	"github.com/content365/content365/internal/service"
	"github.com/content365/content365/internal/service/payment"
	"github.com/content365/content365/internal/ui"
)

type checkoutHandler struct {
	checkout *service.CheckoutService
	packs    *service.PackService
	md       *markdown.Parser
}

func NewCheckoutHandler(checkout *service.CheckoutService, packs *service.PackService, md *markdown.Parser) *checkoutHandler {
	return &checkoutHandler{
		checkout: checkout,
		packs:    packs,
		md:       md,
	}
}

// Success is the checkout return URL. It verifies payment with the
// provider, claims the stored submission, and only then generates. Form
// fields never travel through this URL.
func (h *checkoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil {
		http.Redirect(w, r, "/form", http.StatusSeeOther)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	req, err := h.checkout.Complete(r.Context(), sessionID)
	if err != nil {
		h.renderCompleteError(w, sessionID, err)
		return
	}

	result, err := h.packs.GeneratePack(r.Context(), req)
	if err != nil {
		slog.Error("paid generation failed", "session_id", sessionID, "error", err)
		http.Error(w, "Payment received, but generation failed. Please contact support.", http.StatusInternalServerError)
		return
	}

	renderResult(w, h.md, result, req.Email)
}

func (h *checkoutHandler) renderCompleteError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, payment.ErrNotPaid):
		slog.Warn("success callback for unpaid session", "session_id", sessionID)
		http.Error(w, "Payment not completed for this session.", http.StatusPaymentRequired)
	case errors.Is(err, repository.ErrCheckoutConsumed):
		slog.Warn("success callback replayed", "session_id", sessionID)
		http.Error(w, "This checkout was already used. Check your email for the PDF.", http.StatusGone)
	case errors.Is(err, repository.ErrCheckoutNotFound):
		slog.Warn("success callback for unknown request", "session_id", sessionID)
		http.Error(w, "Unknown checkout session.", http.StatusNotFound)
	default:
		slog.Error("checkout verification failed", "session_id", sessionID, "error", err)
		http.Error(w, "We could not verify this payment. Please contact support.", http.StatusBadGateway)
	}
}

// Cancel is the checkout abandon URL.
func (h *checkoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, "cancel.html", nil)
}

// Webhook receives provider events. Signature verification happens in
// the provider; a verification failure must return non-2xx so the
// provider retries.
func (h *checkoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil {
		http.Error(w, "paywall disabled", http.StatusNotFound)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	if err := h.checkout.HandleWebhook(payload, r.Header); err != nil {
		slog.Error("webhook processing failed", "error", err)
		http.Error(w, "webhook verification failed", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}
