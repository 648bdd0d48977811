package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Folder names a group of assets; each driver maps it to its own layout.
type Folder string

const (
	FolderCategories Folder = "categories"
	FolderProducts   Folder = "products"
)

// Asset is an uploaded image: where clients fetch it and how it is deleted.
type Asset struct {
	URL      string
	PublicID string
}

type Store interface {
	Upload(ctx context.Context, folder Folder, file io.Reader, filename string) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

var ErrUnknownDriver = errors.New("unknown asset driver")

// Config selects and configures a driver.
type Config struct {
	Driver        string
	CloudinaryURL string
	S3            S3Config
}

// Open builds the store named by cfg.Driver. An empty driver means cloudinary.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL)
	case "s3":
		return NewS3(ctx, cfg.S3)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
