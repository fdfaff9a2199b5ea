package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/content365/content365/internal/config"
	"github.com/content365/content365/internal/markdown"
	"github.com/content365/content365/internal/model"
	"github.com/content365/content365/internal/service"
	"github.com/content365/content365/internal/ui"
	"github.com/content365/content365/internal/validation"
)

type formHandler struct {
	cfg      *config.Config
	packs    *service.PackService
	checkout *service.CheckoutService // nil when the paywall is disabled
	md       *markdown.Parser
}

func NewFormHandler(cfg *config.Config, packs *service.PackService, checkout *service.CheckoutService, md *markdown.Parser) *formHandler {
	return &formHandler{
		cfg:      cfg,
		packs:    packs,
		checkout: checkout,
		md:       md,
	}
}

func (h *formHandler) FormPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, "")
}

func (h *formHandler) renderForm(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	ui.Render(w, "form.html", map[string]any{
		"AppName":        h.cfg.AppName,
		"PaywallEnabled": h.cfg.PaywallEnabled && h.checkout != nil,
		"Error":          errMsg,
	})
}

// Submit handles the form post. With the paywall off it generates
// synchronously and renders the result; with it on it redirects to the
// hosted checkout and defers generation to the success callback.
func (h *formHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, http.StatusBadRequest, "Could not read the form submission.")
		return
	}

	req := requestFromForm(r)

	if err := validation.ValidateTopic(req.Topic); err != nil {
		h.renderForm(w, http.StatusUnprocessableEntity, "Please enter a topic.")
		return
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			h.renderForm(w, http.StatusUnprocessableEntity, "Please provide a valid email address, or leave it empty.")
			return
		}
	}

	if h.cfg.PaywallEnabled && h.checkout != nil {
		url, err := h.checkout.Begin(r.Context(), req)
		if err != nil {
			slog.Error("checkout start failed", "error", err)
			h.renderForm(w, http.StatusBadGateway, "We could not start the checkout. Please try again.")
			return
		}
		http.Redirect(w, r, url, http.StatusSeeOther)
		return
	}

	result, err := h.packs.GeneratePack(r.Context(), req)
	if err != nil {
		h.renderGenerateError(w, err)
		return
	}

	renderResult(w, h.md, result, req.Email)
}

func (h *formHandler) renderGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingTopic):
		h.renderForm(w, http.StatusUnprocessableEntity, "Please enter a topic.")
	case errors.Is(err, service.ErrGeneratorNotConfigured):
		slog.Error("generation rejected, model API not configured")
		h.renderForm(w, http.StatusServiceUnavailable, "Content generation is not available right now. Please try again later.")
	default:
		slog.Error("generation failed", "error", err)
		h.renderForm(w, http.StatusInternalServerError, "Something went wrong while building your pack. Please try again.")
	}
}

// requestFromForm maps the posted fields onto a ContentRequest.
func requestFromForm(r *http.Request) *model.ContentRequest {
	return &model.ContentRequest{
		Topic:        strings.TrimSpace(r.FormValue("topic")),
		Audience:     strings.TrimSpace(r.FormValue("audience")),
		AudienceType: strings.TrimSpace(r.FormValue("audience_type")),
		Tone:         strings.TrimSpace(r.FormValue("tone")),
		Style:        strings.TrimSpace(r.FormValue("style")),
		Hashtags:     strings.TrimSpace(r.FormValue("hashtags")),
		Notes:        strings.TrimSpace(r.FormValue("notes")),
		Platforms:    r.Form["platforms"],
		WordCount:    strings.TrimSpace(r.FormValue("word_count")),
		Email:        strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		CompanyName:  strings.TrimSpace(r.FormValue("company_name")),
	}
}

// renderResult shows the generated pack. Shared by the direct flow and
// the paywall success callback.
func renderResult(w http.ResponseWriter, md *markdown.Parser, result *service.PackResult, email string) {
	ui.Render(w, "result.html", map[string]any{
		"Topic":      result.Topic,
		"Filename":   result.Filename,
		"BlogHTML":   md.ParseHTML(result.Pack.BlogPost),
		"Captions":   result.Pack.Captions,
		"LeadMagnet": result.Pack.LeadMagnet,
		"Keywords":   result.Pack.Keywords,
		"Emailed":    result.Emailed,
		"Email":      email,
	})
}
