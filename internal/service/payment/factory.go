package payment

import (
	"fmt"
	"log/slog"

	"github.com/content365/content365/internal/config"
	"github.com/content365/content365/internal/model"
)

// NewProvider creates a payment provider based on configuration
func NewProvider(cfg *config.Config) (Provider, error) {
	provider := cfg.PaymentProvider

	slog.Info("initializing payment provider", "provider", provider)

	switch provider {
	case model.ProviderPolar:
		if cfg.PolarAPIKey == "" {
			return nil, fmt.Errorf("POLAR_API_KEY is required when using Polar provider")
		}
		if cfg.PolarProductID == "" {
			return nil, fmt.Errorf("POLAR_PRODUCT_ID is required when using Polar provider")
		}
		return NewPolarProvider(cfg), nil

	case model.ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required when using Stripe provider")
		}
		if cfg.StripePriceID == "" {
			return nil, fmt.Errorf("STRIPE_PRICE_ID is required when using Stripe provider")
		}
		return NewStripeProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown payment provider: %s (supported: polar, stripe)", provider)
	}
}
