package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}

// SelectiveTimeoutConfig applies the default timeout to ordinary endpoints
// and a longer one to the endpoints that wait on the LLM or the LaTeX
// toolchain. Implemented as two timeout middlewares that skip each other's
// routes.
func SelectiveTimeoutConfig(defaultTimeout, longTimeout time.Duration) echo.MiddlewareFunc {
	standard := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: defaultTimeout,
		Skipper: func(c echo.Context) bool {
			return isLongRunningEndpoint(c.Request().URL.Path)
		},
	})
	long := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: longTimeout,
		Skipper: func(c echo.Context) bool {
			return !isLongRunningEndpoint(c.Request().URL.Path)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return standard(long(next))
	}
}

// isLongRunningEndpoint reports whether a path belongs to the generation or
// compilation surface
func isLongRunningEndpoint(path string) bool {
	return strings.HasPrefix(path, "/api/v1/generate") ||
		strings.HasPrefix(path, "/api/v1/compile")
}
