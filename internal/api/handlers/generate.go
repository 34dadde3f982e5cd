package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"cvtailor/internal/analytics"
	"cvtailor/internal/api/validation"
	"cvtailor/internal/config"
	"cvtailor/internal/logging"
	"cvtailor/internal/tailor"
	"cvtailor/pkg/models"
)

var generationValidator = validator.New()

func init() {
	// Register shared generation validators
	validation.RegisterGenerationValidators(generationValidator)
}

// bindGenerationRequest parses and validates a generation request body.
// Struct validation defers to the explicit field checks so the user-facing
// missing-input messages keep their fixed order.
func bindGenerationRequest(c echo.Context, reqID string) (*models.GenerationRequest, error, bool) {
	var req models.GenerationRequest
	if err := c.Bind(&req); err != nil {
		logging.GetGlobalLogger().Error("Failed to parse request body", map[string]interface{}{
			"request_id": reqID,
			"error":      err.Error(),
		})
		return nil, errorJSON(c, http.StatusBadRequest,
			"invalid_request", "INVALID_REQUEST", "Invalid request body: "+err.Error(), reqID), false
	}

	if err := generationValidator.Struct(&req); err != nil {
		if verr := tailor.ValidateRequest(&req); verr != nil {
			return nil, writeError(c, reqID, verr), false
		}
		return nil, errorJSON(c, http.StatusBadRequest,
			"validation_failed", "VALIDATION_FAILED", "Request validation failed: "+err.Error(), reqID), false
	}
	return &req, nil, true
}

// GenerateCVHandler handles the POST /api/v1/generate/cv endpoint
func GenerateCVHandler(cfg *config.Config, pipeline *tailor.Pipeline, tracker *analytics.Tracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing CV generation request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   "/api/v1/generate/cv",
			"method":     "POST",
		})

		req, resp, ok := bindGenerationRequest(c, reqID)
		if !ok {
			return resp
		}

		tracker.Track(analytics.EventGenerateCVClick, map[string]interface{}{
			"mode":     string(req.EnhancementMode()),
			"language": string(req.OutputLanguage()),
		})

		generation, err := pipeline.GenerateCV(c.Request().Context(), req)
		if err != nil {
			logger.Error("CV generation failed", map[string]interface{}{
				"request_id": reqID,
				"company":    req.CompanyName,
				"error":      err.Error(),
			})
			return writeError(c, reqID, err)
		}

		tracker.Track(analytics.EventGenerateCVSuccess, map[string]interface{}{
			"mode":               string(generation.Mode),
			"language":           string(generation.Language),
			"processing_time_ms": generation.ProcessingTime.Milliseconds(),
		})

		logger.Info("CV generation request completed", map[string]interface{}{
			"request_id":      reqID,
			"generation_id":   generation.ID,
			"processing_time": generation.ProcessingTime.String(),
		})

		return c.JSON(http.StatusOK, models.GenerateCVResponse{
			Success:        true,
			ID:             generation.ID,
			LaTeX:          generation.LaTeX,
			Mode:           generation.Mode,
			Language:       generation.Language,
			ProcessingTime: generation.ProcessingTime,
			RequestID:      reqID,
		})
	}
}

// GenerateCoverLetterHandler handles the POST /api/v1/generate/cover-letter endpoint
func GenerateCoverLetterHandler(cfg *config.Config, pipeline *tailor.Pipeline, tracker *analytics.Tracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing cover letter generation request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   "/api/v1/generate/cover-letter",
			"method":     "POST",
		})

		req, resp, ok := bindGenerationRequest(c, reqID)
		if !ok {
			return resp
		}

		tracker.Track(analytics.EventGenerateCLClick, map[string]interface{}{
			"language": string(req.OutputLanguage()),
		})

		generation, err := pipeline.GenerateCoverLetter(c.Request().Context(), req)
		if err != nil {
			logger.Error("Cover letter generation failed", map[string]interface{}{
				"request_id": reqID,
				"company":    req.CompanyName,
				"error":      err.Error(),
			})
			return writeError(c, reqID, err)
		}

		tracker.Track(analytics.EventGenerateCLSuccess, map[string]interface{}{
			"language":           string(generation.Language),
			"processing_time_ms": generation.ProcessingTime.Milliseconds(),
		})

		logger.Info("Cover letter generation request completed", map[string]interface{}{
			"request_id":      reqID,
			"generation_id":   generation.ID,
			"processing_time": generation.ProcessingTime.String(),
		})

		return c.JSON(http.StatusOK, models.GenerateCoverLetterResponse{
			Success:        true,
			ID:             generation.ID,
			CoverLetter:    generation.CoverLetter,
			Language:       generation.Language,
			ProcessingTime: generation.ProcessingTime,
			RequestID:      reqID,
		})
	}
}
