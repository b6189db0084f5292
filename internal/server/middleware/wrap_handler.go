package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WrapHandler adapts a typed handler: the request is bound and validated
// into Req, and a nil error answers 200 with the result in the Response
// envelope. A handler that returns a *Response controls its own status.
func WrapHandler[Req any, Res any](f func(c echo.Context, req Req) (Res, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Req
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}

		res, err := f(c, req)
		if err != nil {
			return err
		}
		if c.Response().Committed {
			return nil
		}

		if r, ok := any(res).(*Response); ok {
			return c.JSON(r.Status, r)
		}
		return c.JSON(http.StatusOK, &Response{
			Status:  http.StatusOK,
			Success: true,
			Data:    res,
		})
	}
}
