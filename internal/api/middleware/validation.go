package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"cvtailor/pkg/models"
	"cvtailor/pkg/utils"
)

// Body size caps. Multipart uploads carry whole CV documents; JSON bodies
// carry extracted text and job descriptions, which are far smaller.
const (
	maxUploadBytes = 10 * 1024 * 1024
	maxJSONBytes   = 1 * 1024 * 1024
)

// RequestValidation middleware assigns every request an ID and enforces
// body size limits before any handler reads the body
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost {
				limit := int64(maxJSONBytes)
				if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), "multipart/form-data") {
					limit = maxUploadBytes
				}

				if c.Request().ContentLength > limit {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						Code:      "REQUEST_TOO_LARGE",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}
