package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string

	// Only honor X-Forwarded-For / X-Real-IP when a trusted proxy
	// sits in front and overwrites them
	TrustProxyHeaders bool

	// Branding
	BrandName    string
	BrandWebsite string
	LogoPath     string
	FontDir      string

	// Generated files
	OutputDir     string
	StorageDriver string // "local" or "s3"

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Language model
	LLMAPIKey      string
	LLMBaseURL     string // OpenRouter by default; point at a local endpoint to override
	LLMModel       string
	LLMTimeout     time.Duration
	LLMMaxTokens   int
	LLMTemperature float64

	// Payment
	PaywallEnabled      bool
	PaymentProvider     string // "stripe" or "polar"
	StripeSecretKey     string
	StripePriceID       string
	StripeWebhookSecret string
	PolarAPIKey         string
	PolarProductID      string
	PolarWebhookSecret  string
	PolarSandboxMode    bool

	// Email
	EmailFrom        string
	ResendAPIKey     string
	ResendAudienceID string

	// Observability (optional)
	SentryDSN string

	// Storage (only read when StorageDriver is "s3")
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Content365"),
		AppEnv:       envString("APP_ENV", "development"),
		AppURL:       envString("APP_URL", "http://localhost:8090"),
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "contact@content365.xyz"),

		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		// Branding
		BrandName:    envString("BRAND_NAME", "Content365"),
		BrandWebsite: envString("BRAND_WEBSITE", "content365.xyz"),
		LogoPath:     envString("LOGO_PATH", "assets/logo.png"),
		FontDir:      envString("FONT_DIR", "assets/fonts"),

		// Generated files
		OutputDir:     envString("OUTPUT_DIR", "generated"),
		StorageDriver: envString("STORAGE_DRIVER", "local"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/content365.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Language model
		LLMAPIKey:      envString("OPENROUTER_API_KEY", ""),
		LLMBaseURL:     envString("LLM_API_URL", "https://openrouter.ai/api/v1"),
		LLMModel:       envString("LLM_MODEL", "mistralai/mixtral-8x7b-instruct"),
		LLMTimeout:     envDuration("LLM_TIMEOUT", 60*time.Second),
		LLMMaxTokens:   envInt("LLM_MAX_TOKENS", 1200),
		LLMTemperature: envFloat("LLM_TEMPERATURE", 0.6),

		// Payment
		PaywallEnabled:      envBool("ENABLE_PAYWALL", false),
		PaymentProvider:     envString("PAYMENT_PROVIDER", "stripe"),
		StripeSecretKey:     envString("STRIPE_SECRET_KEY", ""),
		StripePriceID:       envString("STRIPE_PRICE_ID", ""),
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),
		PolarAPIKey:         envString("POLAR_API_KEY", ""),
		PolarProductID:      envString("POLAR_PRODUCT_ID", ""),
		PolarWebhookSecret:  envString("POLAR_WEBHOOK_SECRET", ""),
		PolarSandboxMode:    envBool("POLAR_SANDBOX_MODE", envString("APP_ENV", "development") == "development"),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:        envString("EMAIL_FROM", "noreply@content365.xyz"),
		ResendAPIKey:     envString("RESEND_API_KEY", ""),
		ResendAudienceID: envString("RESEND_AUDIENCE_ID", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the paywall cannot be enabled without a
// fully configured payment provider in production deployments.
func validateProduction(cfg *Config) {
	if !cfg.PaywallEnabled {
		return
	}
	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" || cfg.StripePriceID == "" {
			slog.Error("paywall enabled but Stripe is not configured",
				"hint", "set STRIPE_SECRET_KEY and STRIPE_PRICE_ID, or ENABLE_PAYWALL=false")
			os.Exit(1)
		}
	case "polar":
		if cfg.PolarAPIKey == "" || cfg.PolarProductID == "" {
			slog.Error("paywall enabled but Polar is not configured",
				"hint", "set POLAR_API_KEY and POLAR_PRODUCT_ID, or ENABLE_PAYWALL=false")
			os.Exit(1)
		}
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LLMConfigured reports whether the prompt dispatcher has what it needs
// before any model call is attempted. A local endpoint override does not
// require an API key.
func (c *Config) LLMConfigured() bool {
	if c.LLMAPIKey != "" {
		return true
	}
	return c.LLMBaseURL != "" && c.LLMBaseURL != "https://openrouter.ai/api/v1"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded; safe to put in request context.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		SupportEmail: c.SupportEmail,

		BrandName:    c.BrandName,
		BrandWebsite: c.BrandWebsite,

		PaywallEnabled:  c.PaywallEnabled,
		PaymentProvider: c.PaymentProvider,

		EmailFrom: c.EmailFrom,
	}
}
