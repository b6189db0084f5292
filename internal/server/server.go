package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/product-gateway/internal/config"
	"github.com/nguyentranbao-ct/product-gateway/internal/server/graphql"
	pkgmdw "github.com/nguyentranbao-ct/product-gateway/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
	log "github.com/nguyentranbao-ct/product-gateway/pkg/logger/logctx"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
	gql *graphql.Handler,
) error {
	e, err := NewEcho(conf.Server, handler, gql)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr())
				if err := e.Start(conf.Server.Addr()); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}

// NewEcho builds the HTTP router with every route and middleware.
func NewEcho(conf config.ServerConfig, handler Controller, gql *graphql.Handler) (*echo.Echo, error) {
	origins, err := regexp.Compile(conf.CORSOrigins)
	if err != nil {
		return nil, fmt.Errorf("invalid CORS origins pattern: %w", err)
	}

	httpLog := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		// form bodies carry passwords
		FormValues:  func(echo.Context) bool { return false },
		RequestBody: func(c echo.Context) bool { return c.Path() != "/token" },
		ResponseBody: func(c echo.Context) bool {
			return c.Path() != "/token"
		},
		QueryParams: func(echo.Context) bool { return true },
	}

	e.Use(pkgmdw.ContextValues())
	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))
	e.Use(pkgmdw.CORS(origins))
	e.Use(pkgmdw.Credentials())

	e.GET("/", handler.Root)
	e.GET("/health", pkgmdw.WrapHandler(handler.Health))

	e.GET("/products", handler.ListProducts)
	e.GET("/products/first", handler.FirstProduct)
	e.POST("/products", handler.CreateProduct)
	e.PUT("/products/:id", handler.UpdateProduct)
	e.DELETE("/products/:id", handler.DeleteProduct)
	e.POST("/secure/products", handler.CreateSecureProduct)

	e.POST("/token", handler.Token)
	e.POST("/graphql", gql.Serve)

	if conf.PprofEnabled {
		pkgmdw.PprofWrap(e)
	}

	return e, nil
}
