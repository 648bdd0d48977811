package mongo

import (
	"time"

	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type categoryDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Image         string             `bson:"image"`
	ImagePublicID string             `bson:"imagePublicId"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *categoryDoc) toDomain() *catalog.Category {
	return &catalog.Category{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Image:         d.Image,
		ImagePublicID: d.ImagePublicID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type subcategoryDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	ParentCategories primitive.ObjectID `bson:"parentCategories"`
	HasLabCategories bool               `bson:"hasLabCategories"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d *subcategoryDoc) toDomain() *catalog.Subcategory {
	return &catalog.Subcategory{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		ParentCategory:   catalog.Ref{ID: d.ParentCategories.Hex()},
		HasLabCategories: d.HasLabCategories,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type labCategoryDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	ParentSubcategory primitive.ObjectID `bson:"parentSubcategory"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (d *labCategoryDoc) toDomain() *catalog.LabCategory {
	return &catalog.LabCategory{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		ParentSubcategory: catalog.Ref{ID: d.ParentSubcategory.Hex()},
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type techSpecDoc struct {
	Label string `bson:"label"`
	Value string `bson:"value"`
}

type productDoc struct {
	ID                     primitive.ObjectID   `bson:"_id,omitempty"`
	Name                   string               `bson:"name"`
	Description            string               `bson:"description"`
	PCode                  string               `bson:"PCode"`
	Image                  []string             `bson:"image"`
	Categories             []primitive.ObjectID `bson:"categories"`
	SubCategory            *primitive.ObjectID  `bson:"subCategory"`
	LabCategory            *primitive.ObjectID  `bson:"labCategory"`
	TechnicalSpecification []techSpecDoc        `bson:"technicalSpecification"`
	CreatedAt              time.Time            `bson:"createdAt"`
	UpdatedAt              time.Time            `bson:"updatedAt"`
}

func newProductDoc(p *catalog.Product) (*productDoc, error) {
	d := &productDoc{
		Name:                   p.Name,
		Description:            p.Description,
		PCode:                  p.PCode,
		Image:                  p.Image,
		Categories:             make([]primitive.ObjectID, 0, len(p.Categories)),
		TechnicalSpecification: make([]techSpecDoc, 0, len(p.TechnicalSpecification)),
	}
	for _, c := range p.Categories {
		oid, err := refID("categories", c.ID)
		if err != nil {
			return nil, err
		}
		d.Categories = append(d.Categories, oid)
	}
	if id := p.SubCategoryID(); id != "" {
		oid, err := refID("subCategory", id)
		if err != nil {
			return nil, err
		}
		d.SubCategory = &oid
	}
	if id := p.LabCategoryID(); id != "" {
		oid, err := refID("labCategory", id)
		if err != nil {
			return nil, err
		}
		d.LabCategory = &oid
	}
	for _, ts := range p.TechnicalSpecification {
		d.TechnicalSpecification = append(d.TechnicalSpecification, techSpecDoc(ts))
	}
	return d, nil
}

func (d *productDoc) toDomain() *catalog.Product {
	p := &catalog.Product{
		ID:                     d.ID.Hex(),
		Name:                   d.Name,
		Description:            d.Description,
		PCode:                  d.PCode,
		Image:                  d.Image,
		Categories:             make([]catalog.Ref, 0, len(d.Categories)),
		TechnicalSpecification: make([]catalog.TechSpec, 0, len(d.TechnicalSpecification)),
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
	if p.Image == nil {
		p.Image = []string{}
	}
	for _, c := range d.Categories {
		p.Categories = append(p.Categories, catalog.Ref{ID: c.Hex()})
	}
	if d.SubCategory != nil {
		p.SubCategory = &catalog.Ref{ID: d.SubCategory.Hex()}
	}
	if d.LabCategory != nil {
		p.LabCategory = &catalog.Ref{ID: d.LabCategory.Hex()}
	}
	for _, ts := range d.TechnicalSpecification {
		p.TechnicalSpecification = append(p.TechnicalSpecification, catalog.TechSpec(ts))
	}
	return p
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  []byte             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toDomain() *users.User {
	u := &users.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	u.Password.SetHash(d.Password)
	return u
}
