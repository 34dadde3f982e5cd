package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
	"cvtailor/internal/tailor"
	"cvtailor/pkg/models"
)

// CompileHandler handles the POST /api/v1/compile endpoint. On success the
// response body is the PDF itself; failures come back as JSON with a
// compile taxonomy code.
func CompileHandler(cfg *config.Config, pipeline *tailor.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing PDF compilation request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   "/api/v1/compile",
			"method":     "POST",
		})

		if !cfg.LaTeX.Enabled {
			return errorJSON(c, http.StatusServiceUnavailable,
				"compiler_disabled", "COMPILER_NOT_FOUND", "PDF compilation is disabled", reqID)
		}

		var req models.CompileRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to parse request body", map[string]interface{}{
				"request_id": reqID,
				"error":      err.Error(),
			})
			return errorJSON(c, http.StatusBadRequest,
				"invalid_request", "INVALID_REQUEST", "Invalid request body: "+err.Error(), reqID)
		}

		pdf, err := pipeline.CompilePDF(c.Request().Context(), &req)
		if err != nil {
			logger.Error("PDF compilation failed", map[string]interface{}{
				"request_id": reqID,
				"error":      err.Error(),
			})
			return writeError(c, reqID, err)
		}

		logger.Info("PDF compilation completed", map[string]interface{}{
			"request_id": reqID,
			"pdf_bytes":  len(pdf),
		})

		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", models.ArtifactCVPDF))
		return c.Blob(http.StatusOK, "application/pdf", pdf)
	}
}
