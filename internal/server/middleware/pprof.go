package middleware

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

type PprofConfig struct {
	PathPrefix string
	// Middleware guards the profiling routes, e.g. an allow list of internal IPs.
	Middleware []echo.MiddlewareFunc
}

var DefaultPprofConfig = PprofConfig{
	PathPrefix: "",
}

// PprofWrap mounts the runtime profiling endpoints under {PathPrefix}/debug/pprof.
func PprofWrap(e *echo.Echo, opts ...PprofConfig) {
	conf := DefaultPprofConfig
	if len(opts) > 0 {
		conf = opts[0]
	}

	g := e.Group(conf.PathPrefix+"/debug/pprof", conf.Middleware...)
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, name := range []string{"heap", "goroutine", "block", "threadcreate", "allocs", "mutex"} {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}
