package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"spanco/internal/assets"
)

// ProductInput is a full product write. Create and update both overwrite every field.
type ProductInput struct {
	Name                   string
	PCode                  string
	Description            string
	SubCategoryID          string
	LabCategoryID          string
	CategoryIDs            []string
	TechnicalSpecification []TechSpec

	// Image, when present, replaces the image list with the uploaded file;
	// otherwise ImageURLs is stored as given.
	Image     *Upload
	ImageURLs []string
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.store.Products.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "product", "Product not found")
	}
	return p, s.populateProducts(ctx, []*Product{p})
}

// GetProductByPCode matches regardless of the case the caller used.
func (s *Service) GetProductByPCode(ctx context.Context, pcode string) (*Product, error) {
	p, err := s.store.Products.GetByPCode(ctx, strings.ToUpper(strings.TrimSpace(pcode)))
	if err != nil {
		return nil, asNotFound(err, "product", "Product not found with this PCode")
	}
	return p, s.populateProducts(ctx, []*Product{p})
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	p, err := s.buildProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.Products.GetByPCode(ctx, p.PCode); err == nil && existing != nil {
		return nil, Conflict("Product with this PCode already exists")
	} else if err != nil && !isNotFound(err) {
		return nil, err
	}

	publicID, err := s.attachImage(ctx, p, in)
	if err != nil {
		return nil, err
	}

	if err := s.store.Products.Create(ctx, p); err != nil {
		s.discardAsset(publicID)
		return nil, pcodeConflict(err)
	}
	s.invalidateProducts(ctx)
	return p, s.populateProducts(ctx, []*Product{p})
}

// UpdateProduct replaces the product's fields. A new upload does not remove the
// assets of the previous image list.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	p, err := s.buildProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Products.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "product", "Product not found with id %s", id)
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt

	if p.PCode != current.PCode {
		if other, err := s.store.Products.GetByPCode(ctx, p.PCode); err == nil && other.ID != current.ID {
			return nil, Conflict("Product with this PCode already exists")
		} else if err != nil && !isNotFound(err) {
			return nil, err
		}
	}

	publicID, err := s.attachImage(ctx, p, in)
	if err != nil {
		return nil, err
	}

	if err := s.store.Products.Update(ctx, p); err != nil {
		s.discardAsset(publicID)
		if isNotFound(err) {
			return nil, NotFound("product", "Product not found with id %s", id)
		}
		return nil, pcodeConflict(err)
	}
	s.invalidateProducts(ctx)
	return p, s.populateProducts(ctx, []*Product{p})
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.Products.Delete(ctx, id); err != nil {
		return asNotFound(err, "product", "Product not found with id %s", id)
	}
	s.invalidateProducts(ctx)
	return nil
}

// buildProduct checks required fields and every referenced id, in the order
// subcategory, lab category, categories. Nothing is written.
func (s *Service) buildProduct(ctx context.Context, in ProductInput) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	pcode := strings.TrimSpace(in.PCode)
	subID := strings.TrimSpace(in.SubCategoryID)
	if name == "" || pcode == "" || subID == "" {
		return nil, Invalid("Missing required fields: Name, Product Code (PCode), Subcategory")
	}

	if _, err := s.store.Subcategories.GetByID(ctx, subID); err != nil {
		return nil, asNotFound(err, "subcategory", "Subcategory not found with id %s", subID)
	}

	p := &Product{
		Name:                   name,
		PCode:                  pcode,
		Description:            in.Description,
		SubCategory:            &Ref{ID: subID},
		TechnicalSpecification: in.TechnicalSpecification,
	}

	if labID := strings.TrimSpace(in.LabCategoryID); labID != "" {
		if _, err := s.store.LabCategories.GetByID(ctx, labID); err != nil {
			return nil, asNotFound(err, "labcategory", "Lab Category not found with id %s", labID)
		}
		p.LabCategory = &Ref{ID: labID}
	}

	for _, id := range in.CategoryIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := s.store.Categories.GetByID(ctx, id); err != nil {
			return nil, asNotFound(err, "category", "Category not found with id %s", id)
		}
		p.Categories = append(p.Categories, Ref{ID: id})
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// attachImage sets the image list and returns the public id of any new upload.
func (s *Service) attachImage(ctx context.Context, p *Product, in ProductInput) (string, error) {
	if in.Image == nil {
		p.Image = append([]string{}, in.ImageURLs...)
		return "", nil
	}
	asset, err := s.assets.Upload(ctx, assets.FolderProducts, in.Image.File, in.Image.Filename)
	if err != nil {
		return "", fmt.Errorf("upload product image: %w", err)
	}
	p.Image = []string{asset.URL}
	return asset.PublicID, nil
}

func pcodeConflict(err error) error {
	if errors.Is(err, ErrConflict) {
		return Conflict("Product with this PCode already exists")
	}
	return err
}
