package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryRoot = "spanco"

var allowedFormats = api.CldAPIArray{"jpg", "jpeg", "png", "webp"}

// transformations keep uploads within the display size of each folder.
var transformations = map[Folder]string{
	FolderCategories: "c_limit,w_500,h_500",
	FolderProducts:   "c_limit,w_800,h_600",
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("CLOUDINARY_URL is required for the cloudinary asset driver")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, folder Folder, file io.Reader, filename string) (Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         path.Join(cloudinaryRoot, string(folder)),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		AllowedFormats: allowedFormats,
		Transformation: transformations[folder],
	})
	if err != nil {
		return Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return Asset{}, fmt.Errorf("cloudinary upload %s: %s", filename, resp.Error.Message)
	}
	return Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// Destroy also accepts a delivery URL, as stored by rows that predate public ids.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if strings.HasPrefix(publicID, "http://") || strings.HasPrefix(publicID, "https://") {
		id, err := PublicIDFromURL(publicID)
		if err != nil {
			return err
		}
		publicID = id
	}
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete asset from Cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("failed to delete asset from Cloudinary: %s", resp.Error.Message)
	}
	return nil
}

// PublicIDFromURL recovers the public id from a delivery URL, dropping the
// version segment and the file extension.
func PublicIDFromURL(assetURL string) (string, error) {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && isVersion(rest[0]) {
			rest = rest[1:]
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id)), nil
	}
	return "", errors.New("failed to extract public ID from URL")
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
