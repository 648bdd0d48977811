package catalog

import "time"

// Ref is a weak reference to another catalog entity. Stores persist only ID;
// Name (and Image for category parents) are filled when the reference is expanded.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

type Category struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name" validate:"required,max=100"`
	Image         string    `json:"image" validate:"required"`
	ImagePublicID string    `json:"imagePublicId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Subcategory struct {
	ID               string    `json:"_id"`
	Name             string    `json:"name" validate:"required,max=50"`
	ParentCategory   Ref       `json:"parentCategories"`
	HasLabCategories bool      `json:"hasLabCategories"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type LabCategory struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name" validate:"required,max=100"`
	ParentSubcategory Ref       `json:"parentSubcategory"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TechSpec is one row of a product's technical specification table.
type TechSpec struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type Product struct {
	ID                     string     `json:"_id"`
	Name                   string     `json:"name" validate:"required,max=200"`
	Description            string     `json:"description"`
	PCode                  string     `json:"PCode" validate:"required"`
	Image                  []string   `json:"image"`
	Categories             []Ref      `json:"categories"`
	SubCategory            *Ref       `json:"subCategory"`
	LabCategory            *Ref       `json:"labCategory"`
	TechnicalSpecification []TechSpec `json:"technicalSpecification" validate:"dive"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// CategoryIDs returns the ids of the categories the product is filed under.
func (p *Product) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// SubCategoryID returns "" when the product has no subcategory reference.
func (p *Product) SubCategoryID() string {
	if p.SubCategory == nil {
		return ""
	}
	return p.SubCategory.ID
}

func (p *Product) LabCategoryID() string {
	if p.LabCategory == nil {
		return ""
	}
	return p.LabCategory.ID
}

// Sort is a single-field ordering.
type Sort struct {
	Field string
	Desc  bool
}

var (
	SortNewest = Sort{Field: "createdAt", Desc: true}
	SortByName = Sort{Field: "name"}
)

// ProductFilter is the backend-neutral listing predicate. Empty fields do not constrain.
type ProductFilter struct {
	CategoryID    string
	SubcategoryID string
	LabCategoryID string
	Search        string
}

// ProductQuery is a filter plus ordering and window.
type ProductQuery struct {
	Filter ProductFilter
	Sort   Sort
	Skip   int
	Limit  int
}
