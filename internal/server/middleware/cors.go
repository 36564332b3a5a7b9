package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

var exposedHeaders = strings.Join([]string{
	echo.HeaderXRequestID,
	HeaderCatalogSource,
	HeaderCatalogDegradedReason,
}, ", ")

// CORS return echo middleware that handle cors with regexp pattern
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Set(echo.HeaderVary, echo.HeaderOrigin)
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			respHeader.Set(echo.HeaderAccessControlAllowOrigin, origin)
			respHeader.Set(echo.HeaderAccessControlExposeHeaders, exposedHeaders)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set(echo.HeaderAccessControlAllowHeaders, "*, Content-Type")
				respHeader.Set(echo.HeaderAccessControlAllowMethods, "OPTIONS, POST, PUT, PATCH, DELETE, GET, HEAD")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
