package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/server/middleware"
)

// Token exchanges a form-encoded username and password for a session token.
func (h *controller) Token(c echo.Context) error {
	var req models.TokenRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		if models.AsKind(err) == models.KindAuthenticationFailed {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
		}
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, resp)
}
