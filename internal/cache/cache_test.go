package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

func TestMemoryRoundTripAndPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SetJSON(ctx, "products:list:a", page{Items: []string{"x"}, Total: 1}, time.Minute))
	require.NoError(t, m.SetJSON(ctx, "products:list:b", page{Total: 2}, time.Minute))
	require.NoError(t, m.SetJSON(ctx, "other:key", page{Total: 3}, 0))

	var got page
	hit, err := m.GetJSON(ctx, "products:list:a", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, page{Items: []string{"x"}, Total: 1}, got)

	require.NoError(t, m.DeletePrefix(ctx, "products:"))
	assert.Equal(t, 1, m.Len())

	hit, err = m.GetJSON(ctx, "products:list:b", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.SetJSON(ctx, "k", 1, time.Second))
	now = now.Add(2 * time.Second)

	var v int
	hit, err := m.GetJSON(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "k", 1, time.Minute))

	var v int
	hit, err := c.GetJSON(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.DeletePrefix(ctx, "k"))
}
