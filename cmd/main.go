package main

//
//  @title           Stock Price Checker API
//  @version         1.0
//  @description     Stock price and like-count service with per-caller like deduplication.
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        stock-prices
//  @tag.description Endpoint for querying prices and likes
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ryan-Dante/stock-price-checker/config"
	_ "github.com/Ryan-Dante/stock-price-checker/docs" // swagger docs
	"github.com/Ryan-Dante/stock-price-checker/internal/app"
	"github.com/Ryan-Dante/stock-price-checker/internal/identity"
	"github.com/Ryan-Dante/stock-price-checker/internal/logger"
	"github.com/Ryan-Dante/stock-price-checker/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// resetLikes wipes every persisted like record. This is the administrative
// replacement for the old clear-on-startup behavior; it never runs implicitly.
func resetLikes() error {
	db, err := app.InitPostgres(config.AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repo := storage.NewLikesRepository(db, identity.NewBcryptHasher(config.AppConfig.Identity.BcryptCost))
	n, err := repo.DeleteAllLikes()
	if err != nil {
		return err
	}
	logger.L().Info().Int64("deleted", n).Msg("like records cleared")
	return nil
}

// main is the entry point of the stock-price-checker application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the REST API serving /api/stock-prices.
//   - reset: Deletes all persisted like records and exits.
//
// Flags:
//   - --mode: Execution mode ("api" or "reset"). Default: "api".
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or reset")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "reset":
		logger.L().Info().Msg("running likes reset")
		if err := resetLikes(); err != nil {
			logger.L().Fatal().Err(err).Msg("reset failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
