package middleware

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

var pprofRoutes = map[string]http.Handler{
	"/":             http.HandlerFunc(pprof.Index),
	"/cmdline":      http.HandlerFunc(pprof.Cmdline),
	"/profile":      http.HandlerFunc(pprof.Profile),
	"/symbol":       http.HandlerFunc(pprof.Symbol),
	"/trace":        http.HandlerFunc(pprof.Trace),
	"/allocs":       pprof.Handler("allocs"),
	"/block":        pprof.Handler("block"),
	"/goroutine":    pprof.Handler("goroutine"),
	"/heap":         pprof.Handler("heap"),
	"/mutex":        pprof.Handler("mutex"),
	"/threadcreate": pprof.Handler("threadcreate"),
}

// PprofWrap mounts the runtime profiles under /debug/pprof.
func PprofWrap(e *echo.Echo) {
	g := e.Group("/debug/pprof")
	for path, h := range pprofRoutes {
		g.GET(path, echo.WrapHandler(h))
	}
}
