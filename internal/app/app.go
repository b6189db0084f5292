package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/internal/config"
	"github.com/nguyentranbao-ct/product-gateway/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-gateway/internal/server"
	"github.com/nguyentranbao-ct/product-gateway/internal/server/graphql"
	"github.com/nguyentranbao-ct/product-gateway/internal/usecase"
	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

func Invoke(funcs ...any) *fx.App {
	conf := config.MustLoad()
	if err := logger.Init(conf.Log); err != nil {
		panic(err)
	}
	log := logger.MustNamed("app")
	log.Debugw("config loaded",
		"addr", conf.Server.Addr(),
		"database", conf.Database.Database,
		"collection", conf.Database.Collection,
		"api_keys", len(conf.Auth.APIKeys),
	)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newProductRepository,
			newAuthConfig,
			newUserStore,
			newVerifiers,
			newValidator,

			auth.NewTokenIssuer,

			usecase.NewProductUsecase,
			usecase.NewAuthUsecase,

			server.NewController,
			graphql.NewHandler,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeProducts),
		fx.Invoke(funcs...),
	)
}

// InitializeProducts creates the product indexes and, when configured, seeds
// the sample catalogue on startup.
func InitializeProducts(
	lc fx.Lifecycle,
	conf *config.Config,
	repo mongodb.ProductRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureIndexes(ctx); err != nil {
				return err
			}
			if !conf.Database.SeedOnStart {
				return nil
			}
			_, err := usecase.SeedProducts(ctx, repo, false)
			return err
		},
	})
}
