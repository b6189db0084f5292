package middleware

import (
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentranbao-ct/product-gateway/pkg/ctxval"
)

type MetricsConfig struct {
	Skipper   Skipper
	Namespace string
	Buckets   []float64
	// MetricsPath serves the gatherer in text format. Empty disables it.
	MetricsPath string
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
}

const (
	httpRequestsDuration = "http_request_duration_seconds"
	notFoundRoute        = "/not-found"
	anonymousCaller      = "anonymous"
)

var DefaultMetricsConfig = MetricsConfig{
	Skipper:   DefaultSkipper,
	Namespace: "product_gateway",
	Buckets: []float64{
		0.0005,
		0.001, // 1ms
		0.005,
		0.01, // 10ms
		0.025,
		0.05,
		0.1, // 100 ms
		0.25,
		0.5,
		1.0, // 1s
		2.5,
		5.0,
		10.0,
	},
	MetricsPath: "/metrics",
	Registerer:  prometheus.DefaultRegisterer,
	Gatherer:    prometheus.DefaultGatherer,
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

// Metrics returns an echo middleware with default config for instrumentation.
func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

// MetricsWithConfig records one observation per request, labelled by status
// code, method, matched route and the kind of credential that was verified
// while handling it.
func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	httpMetrics, err := registerHttpMetrics(config)
	if err != nil {
		panic(err)
	}

	var promHandler echo.HandlerFunc
	if config.MetricsPath != "" {
		promHandler = echo.WrapHandler(promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if promHandler != nil && req.URL.Path == config.MetricsPath {
				return promHandler(c)
			}
			if config.Skipper(c) {
				return next(c)
			}

			// unmatched paths share one label value
			route := c.Path()
			if isNotFoundHandler(c.Handler()) {
				route = notFoundRoute
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			caller := anonymousCaller
			if _, kind, ok := ctxval.Caller(c.Request().Context()); ok {
				caller = kind
			}
			status := strconv.Itoa(c.Response().Status)
			httpMetrics.WithLabelValues(status, req.Method, route, caller).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// registerHttpMetrics registers the request histogram, reusing the one
// already present in the registerer.
func registerHttpMetrics(config MetricsConfig) (*prometheus.HistogramVec, error) {
	httpMetrics := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      httpRequestsDuration,
		Help:      "Time spent serving a request, by route and caller credential.",
		Buckets:   config.Buckets,
	}, []string{"code", "method", "route", "caller"})

	err := config.Registerer.Register(httpMetrics)
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
			return existing, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return httpMetrics, nil
}
