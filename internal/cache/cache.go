package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values. A miss is (false, nil), not an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error { return nil }
