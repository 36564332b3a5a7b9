package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WrapHandler binds and validates Req, calls f and renders its result in the Response
// envelope. A *Response result is rendered as is, so handlers can pick the status.
func WrapHandler[Req any, Res any](f func(c echo.Context, req Req) (Res, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Req
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}

		data, err := f(c, req)
		if err != nil {
			return err
		}
		if c.Response().Committed {
			return nil
		}

		var out any = data
		resp, ok := out.(*Response)
		if !ok {
			resp = &Response{
				Status:  http.StatusOK,
				Success: true,
				Data:    data,
			}
		}
		return c.JSON(resp.Status, resp)
	}
}

// WrapNoContentHandler is WrapHandler for handlers without a response body.
func WrapNoContentHandler[Req any](f func(c echo.Context, req Req) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Req
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}
		if err := f(c, req); err != nil {
			return err
		}
		if c.Response().Committed {
			return nil
		}
		c.Response().Header().Del(echo.HeaderContentType)
		return c.NoContent(http.StatusNoContent)
	}
}
