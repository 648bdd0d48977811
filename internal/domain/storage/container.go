package storage

import (
	"context"
	"fmt"

	"spanco/internal/db"
	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"
	"spanco/internal/store/memory"
	mongostore "spanco/internal/store/mongo"
	"spanco/internal/store/postgres"
)

type Container struct {
	Catalog catalog.Store
	Users   users.Store

	close func(context.Context) error
}

// Close releases the driver's connections.
func (c *Container) Close(ctx context.Context) error {
	if c.close == nil {
		return nil
	}
	return c.close(ctx)
}

type Config struct {
	Driver string // mongo, postgres or memory

	MongoURI      string
	MongoDatabase string

	Addr         string
	MaxOpenConns int
	MaxIdleTime  string
}

// NewMemoryContainer backs every store with process memory.
func NewMemoryContainer() *Container {
	m := memory.New()
	return &Container{Catalog: m.Catalog(), Users: m.Users()}
}

// Open connects to the configured driver and prepares its schema or indexes.
func Open(ctx context.Context, cfg Config) (*Container, error) {
	switch cfg.Driver {
	case "", "mongo":
		database, err := db.NewMongo(cfg.MongoURI, cfg.MongoDatabase, uint64(cfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := mongostore.New(database)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = database.Client().Disconnect(ctx)
			return nil, err
		}
		return &Container{
			Catalog: store.Catalog(),
			Users:   store.Users(),
			close:   database.Client().Disconnect,
		}, nil

	case "postgres":
		pool, err := db.NewPostgres(cfg.Addr, int32(cfg.MaxOpenConns), cfg.MaxIdleTime)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := postgres.New(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Container{
			Catalog: store.Catalog(),
			Users:   store.Users(),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case "memory":
		return NewMemoryContainer(), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}
