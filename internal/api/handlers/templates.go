package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/latex"
	"cvtailor/internal/logging"
	"cvtailor/pkg/models"
)

// ListTemplatesHandler handles the GET /api/v1/templates endpoint
func ListTemplatesHandler(store *latex.TemplateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		templates := store.List()
		logging.GetGlobalLogger().Debug("Template listing requested", map[string]interface{}{
			"request_id": reqID,
			"count":      len(templates),
		})

		return c.JSON(http.StatusOK, models.TemplateListResponse{
			Success:   true,
			Templates: templates,
			Count:     len(templates),
		})
	}
}

// GetTemplateHandler handles the GET /api/v1/templates/:name endpoint,
// returning the raw LaTeX source of one library template
func GetTemplateHandler(store *latex.TemplateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		content, err := store.Load(c.Param("name"))
		if err != nil {
			return writeError(c, reqID, err)
		}
		return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
	}
}
