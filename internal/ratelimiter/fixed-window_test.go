package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindow(t *testing.T) {
	rl := NewFixedWindowLimiter(3, time.Minute)
	defer rl.Stop()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		assert.True(t, ok, "request %d", i+1)
	}

	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	// other clients have their own window
	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok)

	clock = clock.Add(20 * time.Second)
	ok, retry = rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	clock = clock.Add(40 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
}
