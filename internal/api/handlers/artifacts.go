package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/logging"
	"cvtailor/internal/storage"
	"cvtailor/pkg/models"
)

// ArtifactHandler handles the GET /api/v1/generations/:id/artifacts/:name
// endpoint. Artifacts are served under their original download filenames
// and MIME types; cover_letter.docx carries plain text under the Word MIME
// type, matching the original download behavior.
func ArtifactHandler(store *storage.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		if store == nil {
			return errorJSON(c, http.StatusServiceUnavailable,
				"store_unavailable", "STORE_UNAVAILABLE",
				"Artifact storage is not enabled", reqID)
		}

		generationID := c.Param("id")
		name := c.Param("name")

		contentType, known := models.ArtifactContentType(name)
		if !known {
			return errorJSON(c, http.StatusNotFound,
				"not_found", "NOT_FOUND",
				fmt.Sprintf("Unknown artifact %q", name), reqID)
		}

		record, err := store.GetGeneration(c.Request().Context(), generationID)
		if err != nil {
			logger.Debug("Artifact lookup failed", map[string]interface{}{
				"request_id":    reqID,
				"generation_id": generationID,
				"artifact":      name,
				"error":         err.Error(),
			})
			return writeError(c, reqID, err)
		}

		var content []byte
		switch name {
		case models.ArtifactCVTeX:
			content = []byte(record.CVLaTeX)
		case models.ArtifactCVPDF:
			content = record.PDF
		case models.ArtifactCoverLetterTxt, models.ArtifactCoverLetterDocx:
			content = []byte(record.CoverLetter)
		}

		if len(content) == 0 {
			return errorJSON(c, http.StatusNotFound,
				"not_found", "NOT_FOUND",
				fmt.Sprintf("Artifact %q is not available for this generation", name), reqID)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", name))
		return c.Blob(http.StatusOK, contentType, content)
	}
}
