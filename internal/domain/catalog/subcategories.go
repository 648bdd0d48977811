package catalog

import (
	"context"
	"errors"
	"strings"
)

type SubcategoryInput struct {
	Name             string
	ParentCategoryID string
	HasLabCategories *bool
}

func (s *Service) ListSubcategories(ctx context.Context) ([]*Subcategory, error) {
	subs, err := s.store.Subcategories.List(ctx, SortNewest)
	if err != nil {
		return nil, err
	}
	return subs, s.populateSubcategories(ctx, subs, false)
}

func (s *Service) ListSubcategoriesByCategory(ctx context.Context, categoryID string) ([]*Subcategory, error) {
	subs, err := s.store.Subcategories.ListByCategory(ctx, categoryID, SortByName)
	if err != nil {
		return nil, err
	}
	return subs, s.populateSubcategories(ctx, subs, false)
}

// GetSubcategory expands the parent with its image as well as its name.
func (s *Service) GetSubcategory(ctx context.Context, id string) (*Subcategory, error) {
	sub, err := s.findSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return sub, s.populateSubcategories(ctx, []*Subcategory{sub}, true)
}

func (s *Service) findSubcategory(ctx context.Context, id string) (*Subcategory, error) {
	sub, err := s.store.Subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "subcategory", "Subcategory not found")
	}
	return sub, nil
}

func (s *Service) CreateSubcategory(ctx context.Context, in SubcategoryInput) (*Subcategory, error) {
	name, err := checkName("Subcategory", in.Name, 50)
	if err != nil {
		return nil, err
	}
	parentID := strings.TrimSpace(in.ParentCategoryID)
	if parentID == "" {
		return nil, Invalid("Subcategory validation failed: parentCategories is required")
	}

	if _, err := s.store.Categories.GetByID(ctx, parentID); err != nil {
		return nil, asNotFound(err, "category", "Category not found")
	}

	if _, err := s.store.Subcategories.FindByName(ctx, name, parentID); err == nil {
		return nil, Conflict("Subcategory already exists in this category")
	} else if !isNotFound(err) {
		return nil, err
	}

	sub := &Subcategory{Name: name, ParentCategory: Ref{ID: parentID}}
	if in.HasLabCategories != nil {
		sub.HasLabCategories = *in.HasLabCategories
	}
	if err := s.store.Subcategories.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, s.populateSubcategories(ctx, []*Subcategory{sub}, false)
}

// UpdateSubcategory re-parents, renames and toggles hasLabCategories; only supplied fields change.
func (s *Service) UpdateSubcategory(ctx context.Context, id string, in SubcategoryInput) (*Subcategory, error) {
	sub, err := s.findSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := false
	parentID := strings.TrimSpace(in.ParentCategoryID)
	if parentID != "" && parentID != sub.ParentCategory.ID {
		if _, err := s.store.Categories.GetByID(ctx, parentID); err != nil {
			return nil, asNotFound(err, "category", "Category not found")
		}
		sub.ParentCategory = Ref{ID: parentID}
		moved = true
	}

	name := sub.Name
	if in.Name != "" && in.Name != sub.Name {
		if name, err = checkName("Subcategory", in.Name, 50); err != nil {
			return nil, err
		}
	}

	// Names are unique per parent, so a move is checked even when the name stays.
	if moved || name != sub.Name {
		if other, err := s.store.Subcategories.FindByName(ctx, name, sub.ParentCategory.ID); err == nil && other.ID != sub.ID {
			return nil, Conflict("Subcategory name already exists in this category")
		} else if err != nil && !isNotFound(err) {
			return nil, err
		}
		sub.Name = name
	}

	if in.HasLabCategories != nil {
		sub.HasLabCategories = *in.HasLabCategories
	}

	if err := s.store.Subcategories.Update(ctx, sub); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, Conflict("Subcategory name already exists in this category")
		}
		return nil, err
	}
	s.invalidateProducts(ctx)
	return sub, s.populateSubcategories(ctx, []*Subcategory{sub}, false)
}

// DeleteSubcategory refuses while lab categories still point at the subcategory.
func (s *Service) DeleteSubcategory(ctx context.Context, id string) error {
	if _, err := s.findSubcategory(ctx, id); err != nil {
		return err
	}

	n, err := s.store.LabCategories.CountBySubcategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return Conflict("Cannot delete subcategory with existing lab categories")
	}

	if err := s.store.Subcategories.Delete(ctx, id); err != nil {
		return asNotFound(err, "subcategory", "Subcategory not found")
	}
	s.invalidateProducts(ctx)
	return nil
}


