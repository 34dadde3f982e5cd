package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/config"
	"cvtailor/internal/latex"
	"cvtailor/internal/llm"
	"cvtailor/internal/logging"
	"cvtailor/internal/storage"
	"cvtailor/pkg/models"
)

var startTime = time.Now()

const version = "1.0.0" // TODO: Get from build info

// HealthHandler handles health check requests, probing the LLM provider,
// the LaTeX toolchain and Redis (when enabled). The endpoint stays 200 with
// status "degraded" so load balancers keep routing while operators see
// which dependency is down.
func HealthHandler(cfg *config.Config, llmManager *llm.Manager, compiler *latex.Compiler, store *storage.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{"request_id": reqID})

		status := "healthy"
		checks := map[string]string{
			"api": "ok",
		}

		if llmManager.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "unavailable"
			status = "degraded"
		}

		if !cfg.LaTeX.Enabled {
			checks["latex"] = "disabled"
		} else if err := compiler.Available(); err != nil {
			checks["latex"] = "unavailable"
			status = "degraded"
		} else {
			checks["latex"] = "ok"
		}

		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				status = "degraded"
			} else {
				checks["redis"] = "ok"
			}
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// ReadinessHandler handles readiness probe requests. The service is ready
// once the LLM provider is up; everything else degrades gracefully.
func ReadinessHandler(llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logging.GetGlobalLogger().Debug("Readiness check requested", map[string]interface{}{"request_id": reqID})

		if !llmManager.IsHealthy() {
			return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status:    "not_ready",
				Timestamp: time.Now(),
				Version:   version,
				Uptime:    time.Since(startTime),
				Checks: map[string]string{
					"llm": "unavailable",
				},
			})
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api": "ok",
				"llm": "ok",
			},
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	reqID := requestID(c)
	logging.GetGlobalLogger().Debug("Liveness check requested", map[string]interface{}{"request_id": reqID})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status
func StatusHandler(cfg *config.Config, llmManager *llm.Manager, compiler *latex.Compiler, store *storage.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logging.GetGlobalLogger().Debug("Status check requested", map[string]interface{}{"request_id": reqID})

		checks := map[string]string{
			"api":          "operational",
			"llm_provider": llmManager.GetProviderName(),
		}

		if cfg.LaTeX.Enabled {
			if err := compiler.Available(); err != nil {
				checks["latex"] = "missing"
			} else {
				checks["latex"] = cfg.LaTeX.Compiler
			}
		} else {
			checks["latex"] = "disabled"
		}

		if store != nil {
			checks["artifact_store"] = "redis"
		} else {
			checks["artifact_store"] = "disabled"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}
