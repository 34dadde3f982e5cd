package handlers

import (
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/extractor"
	"cvtailor/internal/logging"
	"cvtailor/pkg/models"
)

// ExtractHandler handles the POST /api/v1/documents/extract endpoint. It
// accepts one multipart file under "file" and returns the extracted plain
// text.
func ExtractHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing document extraction request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   "/api/v1/documents/extract",
			"method":     "POST",
		})

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return errorJSON(c, http.StatusBadRequest,
				"missing_input", "MISSING_INPUT", "Please upload your CV first.", reqID)
		}

		src, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", map[string]interface{}{
				"request_id": reqID,
				"filename":   fileHeader.Filename,
				"error":      err.Error(),
			})
			return errorJSON(c, http.StatusBadRequest,
				"invalid_request", "INVALID_REQUEST", "Unable to read uploaded file", reqID)
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest,
				"invalid_request", "INVALID_REQUEST", "Unable to read uploaded file", reqID)
		}

		text, err := extractor.Extract(fileHeader.Filename, data)
		if err != nil {
			logger.Error("Document extraction failed", map[string]interface{}{
				"request_id": reqID,
				"filename":   fileHeader.Filename,
				"error":      err.Error(),
			})
			return writeError(c, reqID, err)
		}

		characters := utf8.RuneCountInString(text)
		logger.Info("Document extraction completed", map[string]interface{}{
			"request_id": reqID,
			"filename":   fileHeader.Filename,
			"characters": characters,
		})

		return c.JSON(http.StatusOK, models.ExtractResponse{
			Success:    true,
			Filename:   fileHeader.Filename,
			Text:       text,
			Characters: characters,
			RequestID:  reqID,
		})
	}
}
