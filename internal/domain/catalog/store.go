package catalog

import (
	"context"
	"time"
)

// QueryTimeoutDuration bounds every single store round trip issued by the services.
var QueryTimeoutDuration = time.Second * 5

type CategoryStore interface {
	List(ctx context.Context, sort Sort) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	RefsByIDs(ctx context.Context, ids []string) (map[string]Ref, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}

type SubcategoryStore interface {
	List(ctx context.Context, sort Sort) ([]*Subcategory, error)
	ListByCategory(ctx context.Context, categoryID string, sort Sort) ([]*Subcategory, error)
	GetByID(ctx context.Context, id string) (*Subcategory, error)
	FindByName(ctx context.Context, name, categoryID string) (*Subcategory, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	RefsByIDs(ctx context.Context, ids []string) (map[string]Ref, error)
	Create(ctx context.Context, s *Subcategory) error
	Update(ctx context.Context, s *Subcategory) error
	Delete(ctx context.Context, id string) error
}

type LabCategoryStore interface {
	List(ctx context.Context, sort Sort) ([]*LabCategory, error)
	ListBySubcategory(ctx context.Context, subcategoryID string, sort Sort) ([]*LabCategory, error)
	GetByID(ctx context.Context, id string) (*LabCategory, error)
	FindByName(ctx context.Context, name, subcategoryID string) (*LabCategory, error)
	CountBySubcategory(ctx context.Context, subcategoryID string) (int, error)
	RefsByIDs(ctx context.Context, ids []string) (map[string]Ref, error)
	Create(ctx context.Context, l *LabCategory) error
	Update(ctx context.Context, l *LabCategory) error
	Delete(ctx context.Context, id string) error
}

type ProductStore interface {
	List(ctx context.Context, q ProductQuery) ([]*Product, error)
	Count(ctx context.Context, f ProductFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByPCode(ctx context.Context, pcode string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// Store groups the four collection accessors. Implementations return errors
// wrapping ErrNotFound, ErrConflict and ErrValidation.
type Store struct {
	Categories    CategoryStore
	Subcategories SubcategoryStore
	LabCategories LabCategoryStore
	Products      ProductStore
}
