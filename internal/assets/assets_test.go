package assets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUploadDestroy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	a, err := m.Upload(ctx, FolderCategories, strings.NewReader("png"), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "spanco/categories/1-logo.png", a.PublicID)
	assert.True(t, strings.HasPrefix(a.URL, "memory://"))
	assert.True(t, m.Has(a.PublicID))

	require.NoError(t, m.Destroy(ctx, a.PublicID))
	assert.False(t, m.Has(a.PublicID))
	assert.Equal(t, []string{a.PublicID}, m.Destroyed())

	assert.ErrorIs(t, m.Destroy(ctx, a.PublicID), ErrAssetNotFound)
}

func TestMemoryFailDestroy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a, err := m.Upload(ctx, FolderProducts, strings.NewReader("x"), "p.jpg")
	require.NoError(t, err)

	boom := errors.New("boom")
	m.FailDestroy = boom
	assert.ErrorIs(t, m.Destroy(ctx, a.PublicID), boom)
	assert.True(t, m.Has(a.PublicID))
}

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/spanco/categories/abc123.jpg", "spanco/categories/abc123", false},
		{"https://res.cloudinary.com/demo/image/upload/spanco/products/xyz.webp", "spanco/products/xyz", false},
		{"https://example.com/no/marker/here.png", "", true},
	}

	for _, tc := range tests {
		got, err := PublicIDFromURL(tc.url)
		if tc.wantErr {
			assert.Error(t, err, tc.url)
			continue
		}
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(ctx, Config{Driver: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, Config{Driver: "cloudinary"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: "s3"})
	assert.Error(t, err)
}
