package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	// `*` alone does not cover Authorization in Safari
	corsAllowHeaders  = strings.Join([]string{"*", echo.HeaderAuthorization, echo.HeaderContentType, HeaderAPIKey}, ", ")
	corsExposeHeaders = strings.Join([]string{"X-Total-Count", XRequestID}, ", ")
)

// CORS answers browsers whose Origin matches pattern. Preflight requests
// stop here; other requests get the allow headers and continue.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Add(echo.HeaderVary, echo.HeaderOrigin)
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}

			respHeader.Set(echo.HeaderAccessControlAllowOrigin, origin)
			respHeader.Set(echo.HeaderAccessControlExposeHeaders, corsExposeHeaders)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				respHeader.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
