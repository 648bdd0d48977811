package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout bounds pool start-up, including the first ping.
const connectTimeout = 30 * time.Second

// NewPostgres opens a pgx pool against addr. An empty maxIdleTime keeps the
// driver default.
func NewPostgres(addr string, maxConns int32, maxIdleTime string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres address: %w", err)
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if maxIdleTime != "" {
		idle, err := time.ParseDuration(maxIdleTime)
		if err != nil {
			return nil, fmt.Errorf("parse DB_MAX_IDLE_TIME: %w", err)
		}
		config.MaxConnIdleTime = idle
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
