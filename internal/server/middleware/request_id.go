package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/pkg/logger/logctx"
)

const (
	XRequestID     = "X-Request-ID"
	XCorrelationID = "X-Correlation-ID"
)

// GetRequestID returns the id assigned by RequestID, falling back to the
// inbound headers for requests it has not seen.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(XRequestID).(string); ok && id != "" {
		return id
	}
	if id := logctx.RequestID(c.Request().Context()); id != "" {
		return id
	}
	return requestIDFromHeader(c.Request().Header)
}

func requestIDFromHeader(h http.Header) string {
	if id := h.Get(XRequestID); id != "" {
		return id
	}
	return h.Get(XCorrelationID)
}

type RequestIDConfig struct {
	Skipper      Skipper
	GenerateFunc func() string
}

// DefaultRequestIDConfig reuses an inbound id and generates a UUID otherwise.
var DefaultRequestIDConfig = RequestIDConfig{
	Skipper:      DefaultSkipper,
	GenerateFunc: uuid.NewString,
}

func RequestID() echo.MiddlewareFunc {
	return RequestIDWithConfig(DefaultRequestIDConfig)
}

// RequestIDWithConfig stores the id on the echo context and in the request
// context for logctx, and echoes it in the response header.
func RequestIDWithConfig(config RequestIDConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultRequestIDConfig.Skipper
	}
	if config.GenerateFunc == nil {
		config.GenerateFunc = DefaultRequestIDConfig.GenerateFunc
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}
			req := c.Request()
			reqID := requestIDFromHeader(req.Header)
			if reqID == "" {
				reqID = config.GenerateFunc()
			}

			c.SetRequest(req.WithContext(logctx.WithRequestID(req.Context(), reqID)))
			c.Set(XRequestID, reqID)
			c.Response().Header().Set(XRequestID, reqID)
			return next(c)
		}
	}
}
