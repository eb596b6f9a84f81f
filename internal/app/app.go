package app

import (
	"fmt"

	"github.com/Ryan-Dante/stock-price-checker/config"
	"github.com/Ryan-Dante/stock-price-checker/internal/api"
	"github.com/Ryan-Dante/stock-price-checker/internal/identity"
	"github.com/Ryan-Dante/stock-price-checker/internal/quote"
	"github.com/Ryan-Dante/stock-price-checker/internal/service"
	"github.com/Ryan-Dante/stock-price-checker/internal/storage"
	"github.com/gin-gonic/gin"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Builds the identity hasher and likes repository.
//   - Builds the upstream quote client from config.
//   - Creates the service and HTTP handler layers.
//   - Configures the Gin router and registers health probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// Caller identities are bcrypt-hashed before they touch storage
	hasher := identity.NewBcryptHasher(cfg.Identity.BcryptCost)

	// Initialize repository layer (responsible for DB access)
	repo := storage.NewLikesRepository(db, hasher)

	// Upstream price oracle client with a bounded timeout
	fetcher := quote.NewClient(cfg.Quote.BaseURL, cfg.Quote.Timeout)

	// Initialize service layer (business logic)
	svc := service.NewStockService(repo, fetcher)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
