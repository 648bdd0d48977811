package catalog

import (
	"context"
	"errors"
	"strings"
)

type LabCategoryInput struct {
	Name                string
	ParentSubcategoryID string
}

func (s *Service) ListLabCategories(ctx context.Context) ([]*LabCategory, error) {
	labs, err := s.store.LabCategories.List(ctx, SortNewest)
	if err != nil {
		return nil, err
	}
	return labs, s.populateLabCategories(ctx, labs)
}

func (s *Service) ListLabCategoriesBySubcategory(ctx context.Context, subcategoryID string) ([]*LabCategory, error) {
	labs, err := s.store.LabCategories.ListBySubcategory(ctx, subcategoryID, SortByName)
	if err != nil {
		return nil, err
	}
	return labs, s.populateLabCategories(ctx, labs)
}

func (s *Service) GetLabCategory(ctx context.Context, id string) (*LabCategory, error) {
	lab, err := s.findLabCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return lab, s.populateLabCategories(ctx, []*LabCategory{lab})
}

func (s *Service) findLabCategory(ctx context.Context, id string) (*LabCategory, error) {
	lab, err := s.store.LabCategories.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "labcategory", "Lab category not found")
	}
	return lab, nil
}

func (s *Service) CreateLabCategory(ctx context.Context, in LabCategoryInput) (*LabCategory, error) {
	name, err := checkName("LabCategory", in.Name, 100)
	if err != nil {
		return nil, err
	}
	parentID := strings.TrimSpace(in.ParentSubcategoryID)
	if parentID == "" {
		return nil, Invalid("LabCategory validation failed: parentSubcategory is required")
	}

	if _, err := s.store.Subcategories.GetByID(ctx, parentID); err != nil {
		return nil, asNotFound(err, "subcategory", "Subcategory not found")
	}

	if _, err := s.store.LabCategories.FindByName(ctx, name, parentID); err == nil {
		return nil, Conflict("Lab category already exists in this subcategory")
	} else if !isNotFound(err) {
		return nil, err
	}

	lab := &LabCategory{Name: name, ParentSubcategory: Ref{ID: parentID}}
	if err := s.store.LabCategories.Create(ctx, lab); err != nil {
		return nil, err
	}
	return lab, s.populateLabCategories(ctx, []*LabCategory{lab})
}

func (s *Service) UpdateLabCategory(ctx context.Context, id string, in LabCategoryInput) (*LabCategory, error) {
	lab, err := s.findLabCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := false
	parentID := strings.TrimSpace(in.ParentSubcategoryID)
	if parentID != "" && parentID != lab.ParentSubcategory.ID {
		if _, err := s.store.Subcategories.GetByID(ctx, parentID); err != nil {
			return nil, asNotFound(err, "subcategory", "Subcategory not found")
		}
		lab.ParentSubcategory = Ref{ID: parentID}
		moved = true
	}

	name := lab.Name
	if in.Name != "" && in.Name != lab.Name {
		if name, err = checkName("LabCategory", in.Name, 100); err != nil {
			return nil, err
		}
	}

	if moved || name != lab.Name {
		if other, err := s.store.LabCategories.FindByName(ctx, name, lab.ParentSubcategory.ID); err == nil && other.ID != lab.ID {
			return nil, Conflict("Lab category name already exists in this subcategory")
		} else if err != nil && !isNotFound(err) {
			return nil, err
		}
		lab.Name = name
	}

	if err := s.store.LabCategories.Update(ctx, lab); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, Conflict("Lab category name already exists in this subcategory")
		}
		return nil, err
	}
	s.invalidateProducts(ctx)
	return lab, s.populateLabCategories(ctx, []*LabCategory{lab})
}

// DeleteLabCategory is unconditional: products referencing the lab category are
// left with a dangling reference, which expands to null when listed.
func (s *Service) DeleteLabCategory(ctx context.Context, id string) error {
	if _, err := s.findLabCategory(ctx, id); err != nil {
		return err
	}
	if err := s.store.LabCategories.Delete(ctx, id); err != nil {
		return asNotFound(err, "labcategory", "Lab category not found")
	}
	s.invalidateProducts(ctx)
	return nil
}


