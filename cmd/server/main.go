package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/analytics"
	"cvtailor/internal/api/routes"
	"cvtailor/internal/config"
	"cvtailor/internal/latex"
	"cvtailor/internal/llm"
	"cvtailor/internal/logging"
	"cvtailor/internal/storage"
	"cvtailor/internal/tailor"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting CV Tailor", map[string]interface{}{
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	})

	// Initialize LLM manager. A missing API key is a configuration error
	// and stops startup here rather than surfacing on the first request.
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	// Initialize the artifact store when enabled
	var store *storage.Client
	if cfg.Redis.Enabled {
		store = storage.NewClient(cfg)

		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
		if err := store.Ping(pingCtx); err != nil {
			logger.Warn("Artifact store unreachable, downloads will be unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("Artifact store connected", map[string]interface{}{
				"ttl": cfg.Redis.TTL.String(),
			})
		}
		cancel()
	}

	// Analytics tracker (no-op without a measurement ID)
	tracker := analytics.NewTracker(cfg)
	if tracker.Enabled() {
		logger.Info("Analytics enabled", map[string]interface{}{
			"measurement_id": cfg.Analytics.MeasurementID,
		})
	}

	// Generation pipeline
	templates := latex.NewTemplateStore(cfg)
	compiler := latex.NewCompiler(cfg)
	pipeline := tailor.NewPipeline(cfg, llmManager, templates, compiler, store)

	if cfg.LaTeX.Enabled {
		if err := compiler.Available(); err != nil {
			logger.Warn("LaTeX compiler not found, PDF compilation will fail", map[string]interface{}{
				"compiler": cfg.LaTeX.Compiler,
			})
		}
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, pipeline, llmManager, store, tracker)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
		}

		if store != nil {
			logger.Info("Closing artifact store...")
			if err := store.Close(); err != nil {
				logger.Error("Error closing artifact store", map[string]interface{}{"error": err.Error()})
			}
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
