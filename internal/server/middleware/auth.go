package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
)

const (
	HeaderAPIKey         = "X-API-Key"
	ContextKeyCredential = "credential"
)

type credentialHeaders struct {
	APIKey        string `header:"X-API-Key"`
	Authorization string `header:"Authorization"`
}

// Credentials reads the presented credential from the request headers and
// stores it on the echo context. It never rejects a request; verification is
// up to the operation being called.
//
// An API key header wins over an Authorization header. Without either the
// credential is an empty API key, which verifies as Forbidden.
func Credentials() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var h credentialHeaders
			if err := bindHeader(c.Request().Header, &h); err != nil {
				return err
			}

			cred := auth.APIKey(h.APIKey)
			if h.APIKey == "" && h.Authorization != "" {
				cred = auth.Bearer(h.Authorization)
			}
			c.Set(ContextKeyCredential, cred)
			return next(c)
		}
	}
}

func GetCredential(c echo.Context) auth.Credential {
	if cred, ok := c.Get(ContextKeyCredential).(auth.Credential); ok {
		return cred
	}
	return auth.APIKey("")
}
