// Package storage is the document store data-access layer. All entities live
// in MongoDB collections; every operation is bounded by a per-call timeout.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreconfig "github.com/avigsen/estatebot/core/config"
	"github.com/avigsen/estatebot/core/logger"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned when a referenced document no longer exists.
var ErrNotFound = errors.New("storage: not found")

const defaultOpTimeout = 5 * time.Second

// Store exposes catalog, user and order persistence on top of a Mongo database.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
}

// Connect opens the Mongo connection, verifies connectivity, and returns a Store.
func Connect(ctx context.Context, cfg coreconfig.MongoConfig) (*Store, error) {
	opTimeout := defaultOpTimeout
	if cfg.OpTimeoutSeconds > 0 {
		opTimeout = time.Duration(cfg.OpTimeoutSeconds) * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", "mongo"),
			slog.String("db", cfg.Database),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if pingErr := client.Ping(connectCtx, readpref.Primary()); pingErr != nil {
		logger.DB.Error("db ping failed",
			slog.String("event", "db.ping"),
			slog.String("driver", "mongo"),
			slog.String("db", cfg.Database),
			slog.String("err", pingErr.Error()),
		)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}
	took := time.Since(start)

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", "mongo"),
		slog.String("db", cfg.Database),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return &Store{
		client:    client,
		db:        client.Database(cfg.Database),
		opTimeout: opTimeout,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Store) categories() *mongo.Collection { return s.db.Collection("categories") }
func (s *Store) listings() *mongo.Collection   { return s.db.Collection("listings") }
func (s *Store) operators() *mongo.Collection  { return s.db.Collection("operators") }
func (s *Store) orders() *mongo.Collection     { return s.db.Collection("orders") }
func (s *Store) users() *mongo.Collection      { return s.db.Collection("users") }
