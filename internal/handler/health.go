package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/content365/content365/internal/config"
	"github.com/content365/content365/internal/pdf"
	"github.com/content365/content365/internal/repository"
	"github.com/content365/content365/internal/service"
)

type healthHandler struct {
	cfg       *config.Config
	generator *service.Generator
	composer  *pdf.Composer
	email     *service.EmailService
	packs     repository.PackRepository
	db        *sqlx.DB
}

func NewHealthHandler(
	cfg *config.Config,
	generator *service.Generator,
	composer *pdf.Composer,
	email *service.EmailService,
	packs repository.PackRepository,
	db *sqlx.DB,
) *healthHandler {
	return &healthHandler{
		cfg:       cfg,
		generator: generator,
		composer:  composer,
		email:     email,
		packs:     packs,
		db:        db,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write json response", "error", err)
	}
}

// Healthz is the liveness probe.
func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LLM reports whether the model API is configured. It does not call the
// API; probes must stay free.
func (h *healthHandler) LLM(w http.ResponseWriter, r *http.Request) {
	configured := h.generator.Ready()
	status := http.StatusOK
	if !configured {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"configured": configured,
		"model":      h.cfg.LLMModel,
	})
}

// PDF reports font availability for the composer.
func (h *healthHandler) PDF(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"unicode_fonts": h.composer.UnicodeFonts(),
	})
}

// Email reports whether delivery is configured.
func (h *healthHandler) Email(w http.ResponseWriter, r *http.Request) {
	configured := h.email.Configured()
	status := http.StatusOK
	if !configured {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"configured": configured,
	})
}

// Status is the operator overview: config summary plus DB reachability
// and total packs generated.
func (h *healthHandler) Status(w http.ResponseWriter, r *http.Request) {
	dbOK := h.db.PingContext(r.Context()) == nil

	packCount := -1
	if dbOK {
		if n, err := h.packs.Count(); err == nil {
			packCount = n
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"app":              h.cfg.AppName,
		"env":              h.cfg.AppEnv,
		"paywall_enabled":  h.cfg.PaywallEnabled,
		"payment_provider": h.cfg.PaymentProvider,
		"storage_driver":   h.cfg.StorageDriver,
		"output_dir":       h.cfg.OutputDir,
		"llm_configured":   h.generator.Ready(),
		"email_configured": h.email.Configured(),
		"unicode_fonts":    h.composer.UnicodeFonts(),
		"database_ok":      dbOK,
		"packs_generated":  packCount,
	})
}
