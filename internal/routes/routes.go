package routes

import (
	"net/http"

	"github.com/content365/content365/internal/app"
	"github.com/content365/content365/internal/handler"
	"github.com/content365/content365/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	form := handler.NewFormHandler(app.Cfg, app.PackService, app.CheckoutService, app.Markdown)
	pack := handler.NewPackHandler(app.Storage)
	checkout := handler.NewCheckoutHandler(app.CheckoutService, app.PackService, app.Markdown)
	health := handler.NewHealthHandler(app.Cfg, app.Generator, app.Composer, app.EmailService, app.PackRepository, app.DB)

	mux := http.NewServeMux()

	// Static files (logo, fonts) from the local assets directory
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir("assets"))))

	// Form
	mux.HandleFunc("GET /{$}", form.FormPage)
	mux.HandleFunc("GET /form", form.FormPage)

	// Generation is the expensive path, so it is rate limited per IP
	rateLimiter := middleware.RateLimitGenerate(app.Cfg.TrustProxyHeaders)
	mux.HandleFunc("POST /form", rateLimiter(form.Submit))

	// Generated files
	mux.HandleFunc("GET /download/{file}", pack.Download)
	mux.HandleFunc("GET /preview/{file}", pack.Preview)

	// Paywall flow
	mux.HandleFunc("GET /success", checkout.Success)
	mux.HandleFunc("GET /cancel", checkout.Cancel)

	// Payment provider webhook (works with both Polar and Stripe)
	mux.HandleFunc("POST /webhooks/payment", checkout.Webhook)

	// Health and status
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /health/llm", health.LLM)
	mux.HandleFunc("GET /health/pdf", health.PDF)
	mux.HandleFunc("GET /health/email", health.Email)
	mux.HandleFunc("GET /status", health.Status)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
	)
}
