package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

type ConnectionConfig struct {
	URI      string
	Database string
	// Timeout bounds every operation issued through the client.
	Timeout time.Duration
}

// NewConnection creates the client. It does not contact the server; call
// Ping before serving traffic.
func NewConnection(ctx context.Context, cfg ConnectionConfig) (*DB, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("product-gateway").
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second)
	if cfg.Timeout > 0 {
		clientOptions.SetTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(cfg.Database),
	}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
