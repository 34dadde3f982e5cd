package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"cvtailor/internal/extractor"
	"cvtailor/internal/latex"
	"cvtailor/internal/llm"
	"cvtailor/internal/storage"
	"cvtailor/internal/tailor"
	"cvtailor/pkg/models"
	"cvtailor/pkg/utils"
)

// requestID returns the request ID set by the validation middleware,
// minting one when the middleware is not installed (tests hit handlers
// directly).
func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

// errorJSON builds the standard error payload
func errorJSON(c echo.Context, status int, token, code, message, reqID string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     token,
		Message:   message,
		Code:      code,
		RequestID: reqID,
		Timestamp: time.Now(),
	})
}

// writeError translates pipeline failures into stable error codes and HTTP
// statuses. Messages the user is meant to see verbatim (missing inputs,
// compiler diagnostics) ride through unchanged; anything unrecognized
// becomes a 500 without leaking internals.
func writeError(c echo.Context, reqID string, err error) error {
	var inputErr *tailor.InputError

	switch {
	case errors.As(err, &inputErr):
		return errorJSON(c, http.StatusBadRequest,
			"missing_input", "MISSING_INPUT", inputErr.Message, reqID)

	case errors.Is(err, extractor.ErrUnsupportedFormat):
		message := fmt.Sprintf("Unsupported file format. Supported formats: %s",
			strings.Join(extractor.SupportedExtensions, ", "))
		return errorJSON(c, http.StatusUnsupportedMediaType,
			"unsupported_format", "UNSUPPORTED_FORMAT", message, reqID)

	case errors.Is(err, extractor.ErrEmptyDocument):
		return errorJSON(c, http.StatusUnprocessableEntity,
			"empty_document", "EMPTY_DOCUMENT",
			"Failed to extract text from CV. The file might be empty, encrypted, or contain only images.", reqID)

	case errors.Is(err, extractor.ErrExtractionFailed):
		return errorJSON(c, http.StatusUnprocessableEntity,
			"extraction_failed", "EXTRACTION_FAILED",
			fmt.Sprintf("Error during CV parsing: %v", err), reqID)

	case errors.Is(err, latex.ErrTemplateName), errors.Is(err, latex.ErrTemplateNotFound):
		return errorJSON(c, http.StatusNotFound,
			"template_not_found", "TEMPLATE_NOT_FOUND", err.Error(), reqID)

	case errors.Is(err, llm.ErrMissingAPIKey):
		return errorJSON(c, http.StatusUnauthorized,
			"credential_error", "CREDENTIAL_ERROR",
			"LLM API key is missing or invalid", reqID)

	case errors.Is(err, llm.ErrCompletionFailed):
		return errorJSON(c, http.StatusBadGateway,
			"service_error", "SERVICE_ERROR", err.Error(), reqID)

	case errors.Is(err, latex.ErrCompileTimeout):
		return errorJSON(c, http.StatusGatewayTimeout,
			"compile_timeout", "COMPILE_TIMEOUT", err.Error(), reqID)

	case errors.Is(err, latex.ErrCompilerNotFound):
		return errorJSON(c, http.StatusServiceUnavailable,
			"compiler_not_found", "COMPILER_NOT_FOUND", err.Error(), reqID)

	case errors.Is(err, latex.ErrCompileFailed):
		return errorJSON(c, http.StatusUnprocessableEntity,
			"compile_failed", "COMPILE_FAILED", err.Error(), reqID)

	case errors.Is(err, storage.ErrNotFound):
		return errorJSON(c, http.StatusNotFound,
			"not_found", "NOT_FOUND", err.Error(), reqID)
	}

	return errorJSON(c, http.StatusInternalServerError,
		"internal_error", "INTERNAL", "An unexpected error occurred", reqID)
}
