package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-explorer/internal/api"
	"github.com/codyseavey/tcg-explorer/internal/clock"
	"github.com/codyseavey/tcg-explorer/internal/config"
	"github.com/codyseavey/tcg-explorer/internal/logging"
	"github.com/codyseavey/tcg-explorer/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Card data gateway (upstream adapter is private to the gateway)
	pokemonService := services.NewPokemonTCGService(cfg.CardAPI, logger.Named("pokemontcg"))
	defer pokemonService.Close()
	if cfg.CardAPI.APIKey == "" {
		logger.Warn("POKEMONTCG_IO_API_KEY not set, card API will use the anonymous quota")
	}

	gateway, err := services.NewCardGateway(pokemonService, cfg.Cache, clock.NewRealClock(), logger.Named("gateway"))
	if err != nil {
		logger.Fatal("Failed to initialize card gateway", zap.Error(err))
	}

	// Intent resolution: Gemini first, keyword matching as fallback
	matcher, err := services.NewSetMatcher()
	if err != nil {
		logger.Fatal("Failed to load set aliases", zap.Error(err))
	}

	geminiModel, err := services.NewGeminiIntentModel(ctx, cfg.LLM, logger.Named("gemini"))
	if err != nil {
		logger.Fatal("Failed to initialize Gemini", zap.Error(err))
	}

	var primary services.Resolver
	if geminiModel.IsEnabled() {
		primary = services.NewIntentResolver(geminiModel, gateway, matcher, logger.Named("resolver"))
	}
	fallback := services.NewKeywordResolver(gateway, matcher)

	assistant := services.NewAssistant(primary, fallback, gateway, logger.Named("assistant"))

	// Warm the set catalog so the first question does not pay for it
	go func() {
		warmCtx, warmCancel := context.WithTimeout(ctx, cfg.CardAPI.Timeout)
		defer warmCancel()
		if _, err := gateway.FetchAllSets(warmCtx); err != nil {
			logger.Warn("Set catalog warm-up failed", zap.Error(err))
		}
	}()

	router := api.SetupRouter(cfg, api.Services{
		Cards:     gateway,
		Valuer:    assistant,
		Assistant: assistant,
	}, logger.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
