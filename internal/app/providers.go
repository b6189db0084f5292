package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/internal/config"
	"github.com/nguyentranbao-ct/product-gateway/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-gateway/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-gateway/internal/usecase"
	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, mongodb.ConnectionConfig{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Database,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return db.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

func newProductRepository(db *mongodb.DB, cfg *config.Config) (mongodb.ProductRepository, error) {
	return mongodb.NewProductRepository(db, cfg.Database.Collection)
}

func newAuthConfig(cfg *config.Config) (auth.Config, error) {
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return auth.Config{}, fmt.Errorf("generate signing secret: %w", err)
		}
		logger.MustNamed("auth").Warnw("AUTH_JWT_SECRET not set, using a random secret for this process")
	}

	return auth.Config{
		APIKeys:  cfg.Auth.APIKeys,
		Secret:   secret,
		TokenTTL: cfg.Auth.TokenTTL,
		Issuer:   cfg.Auth.Issuer,
	}, nil
}

func newUserStore(cfg *config.Config) (auth.UserStore, error) {
	users, err := usecase.LoadUsers(cfg.Auth.UsersFile)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func newVerifiers(cfg auth.Config, users auth.UserStore) auth.Verifiers {
	return auth.Verifiers{
		auth.KindAPIKey: auth.NewAPIKeyVerifier(cfg),
		auth.KindBearer: auth.NewBearerVerifier(cfg, users),
	}
}

func newValidator() usecase.Validator {
	return middleware.NewValidator()
}
