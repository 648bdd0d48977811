package catalog

import (
	"context"
	"fmt"

	"spanco/internal/assets"
)

type CategoryInput struct {
	Name  string
	Image *Upload
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.store.Categories.List(ctx, SortNewest)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "category", "Category not found")
	}
	return c, nil
}

// CreateCategory requires an image; the upload happens only after the name passed its checks.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if in.Image == nil {
		return nil, Invalid("Image is required")
	}
	name, err := checkName("Category", in.Name, 100)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Categories.FindByName(ctx, name); err == nil {
		return nil, Conflict("Category already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	asset, err := s.assets.Upload(ctx, assets.FolderCategories, in.Image.File, in.Image.Filename)
	if err != nil {
		return nil, fmt.Errorf("upload category image: %w", err)
	}

	c := &Category{Name: name, Image: asset.URL, ImagePublicID: asset.PublicID}
	if err := s.store.Categories.Create(ctx, c); err != nil {
		s.discardAsset(asset.PublicID)
		return nil, err
	}
	return c, nil
}

// UpdateCategory renames and/or swaps the image. The previous asset is destroyed
// before the row is written, so a destroy failure leaves the entity untouched.
func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != c.Name {
		name, err := checkName("Category", in.Name, 100)
		if err != nil {
			return nil, err
		}
		if name != c.Name {
			if _, err := s.store.Categories.FindByName(ctx, name); err == nil {
				return nil, Conflict("Category name already exists")
			} else if !isNotFound(err) {
				return nil, err
			}
			c.Name = name
		}
	}

	if in.Image != nil {
		asset, err := s.assets.Upload(ctx, assets.FolderCategories, in.Image.File, in.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("upload category image: %w", err)
		}
		if c.ImagePublicID != "" {
			if err := s.assets.Destroy(ctx, c.ImagePublicID); err != nil {
				s.discardAsset(asset.PublicID)
				return nil, fmt.Errorf("destroy previous category image: %w", err)
			}
		}
		c.Image = asset.URL
		c.ImagePublicID = asset.PublicID
	}

	if err := s.store.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx)
	return c, nil
}

// DeleteCategory refuses while subcategories still point at the category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.store.Subcategories.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return Conflict("Cannot delete category with existing subcategories")
	}

	if c.ImagePublicID != "" {
		if err := s.assets.Destroy(ctx, c.ImagePublicID); err != nil {
			return fmt.Errorf("destroy category image: %w", err)
		}
	}

	if err := s.store.Categories.Delete(ctx, id); err != nil {
		return asNotFound(err, "category", "Category not found")
	}
	s.invalidateProducts(ctx)
	return nil
}
