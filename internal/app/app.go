package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/content365/content365/internal/config"
	"github.com/content365/content365/internal/db"
	"github.com/content365/content365/internal/llm"
	"github.com/content365/content365/internal/markdown"
	"github.com/content365/content365/internal/pdf"
	"github.com/content365/content365/internal/repository"
	"github.com/content365/content365/internal/service"
	"github.com/content365/content365/internal/service/payment"
	"github.com/content365/content365/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Storage         storage.Storage
	Generator       *service.Generator
	Composer        *pdf.Composer
	EmailService    *service.EmailService
	PackService     *service.PackService
	CheckoutService *service.CheckoutService // nil when the paywall is disabled
	PackRepository  repository.PackRepository
	Markdown        *markdown.Parser
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	packRepository := repository.NewPackRepository(database)
	checkoutRepository := repository.NewCheckoutRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	var client llm.Client
	if cfg.LLMConfigured() {
		client = llm.NewHTTPClient(llm.Config{
			APIKey:      cfg.LLMAPIKey,
			BaseURL:     cfg.LLMBaseURL,
			Model:       cfg.LLMModel,
			Timeout:     cfg.LLMTimeout,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
	}
	generator := service.NewGenerator(client)

	composer := pdf.NewComposer(pdf.Branding{
		BrandName: cfg.BrandName,
		Website:   cfg.BrandWebsite,
		LogoPath:  cfg.LogoPath,
	}, cfg.FontDir)

	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ResendAudienceID,
		cfg.AppName,
		cfg.IsDevelopment(),
	)

	packService := service.NewPackService(generator, composer, fileStorage, packRepository, emailService)

	// Payment provider and checkout flow, only when the paywall is on
	var checkoutService *service.CheckoutService
	if cfg.PaywallEnabled {
		paymentProvider, err := payment.NewProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize payment provider: %v", err)
		}
		checkoutService = service.NewCheckoutService(paymentProvider, checkoutRepository)
		go pruneCheckoutsLoop(checkoutService)
	}

	return &App{
		Cfg:             cfg,
		DB:              database,
		Storage:         fileStorage,
		Generator:       generator,
		Composer:        composer,
		EmailService:    emailService,
		PackService:     packService,
		CheckoutService: checkoutService,
		PackRepository:  packRepository,
		Markdown:        markdown.NewParser(),
	}, nil
}

// pruneCheckoutsLoop clears abandoned checkout requests every hour.
// Sessions older than 24h can no longer complete anyway.
func pruneCheckoutsLoop(checkouts *service.CheckoutService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		checkouts.PruneStale(24 * time.Hour)
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
