package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"cvtailor/internal/analytics"
	"cvtailor/internal/api/handlers"
	"cvtailor/internal/api/middleware"
	"cvtailor/internal/config"
	"cvtailor/internal/llm"
	"cvtailor/internal/storage"
	"cvtailor/internal/tailor"
)

// SetupRoutes configures all API routes. store may be nil when the
// artifact store is disabled.
func SetupRoutes(e *echo.Echo, cfg *config.Config, pipeline *tailor.Pipeline, llmManager *llm.Manager, store *storage.Client, tracker *analytics.Tracker) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Selective timeout: the default for most endpoints, 2 minutes for the
	// endpoints that wait on the LLM or the LaTeX toolchain
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 2*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(cfg, llmManager, pipeline.Compiler(), store))
		health.GET("/ready", handlers.ReadinessHandler(llmManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(cfg, llmManager, pipeline.Compiler(), store))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		// Document extraction routes
		documents := v1.Group("/documents")
		{
			documents.POST("/extract", handlers.ExtractHandler())
		}

		// Generation routes
		generate := v1.Group("/generate")
		{
			generate.POST("/cv", handlers.GenerateCVHandler(cfg, pipeline, tracker))
			generate.POST("/cover-letter", handlers.GenerateCoverLetterHandler(cfg, pipeline, tracker))
		}

		// Compilation route
		v1.POST("/compile", handlers.CompileHandler(cfg, pipeline))

		// Template library routes
		templates := v1.Group("/templates")
		{
			templates.GET("", handlers.ListTemplatesHandler(pipeline.Templates()))
			templates.GET("/:name", handlers.GetTemplateHandler(pipeline.Templates()))
		}

		// Artifact download routes
		generations := v1.Group("/generations")
		{
			generations.GET("/:id/artifacts/:name", handlers.ArtifactHandler(store))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "CV Tailor",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
