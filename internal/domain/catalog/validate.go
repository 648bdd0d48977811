package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims user-supplied text the way the store schema does and upper-cases the PCode.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.PCode = strings.ToUpper(strings.TrimSpace(p.PCode))
	for i := range p.TechnicalSpecification {
		p.TechnicalSpecification[i].Label = strings.TrimSpace(p.TechnicalSpecification[i].Label)
		p.TechnicalSpecification[i].Value = strings.TrimSpace(p.TechnicalSpecification[i].Value)
	}
	if p.Image == nil {
		p.Image = []string{}
	}
	if p.Categories == nil {
		p.Categories = []Ref{}
	}
	if p.TechnicalSpecification == nil {
		p.TechnicalSpecification = []TechSpec{}
	}
}

// Validate checks declared field constraints. Every store backend calls it
// before persisting so that all drivers reject the same documents.
func Validate(entity any) error {
	switch e := entity.(type) {
	case *Category:
		e.Name = strings.TrimSpace(e.Name)
	case *Subcategory:
		e.Name = strings.TrimSpace(e.Name)
		if e.ParentCategory.ID == "" {
			return Invalid("Subcategory validation failed: parentCategories is required")
		}
	case *LabCategory:
		e.Name = strings.TrimSpace(e.Name)
		if e.ParentSubcategory.ID == "" {
			return Invalid("LabCategory validation failed: parentSubcategory is required")
		}
	case *Product:
		e.Normalize()
	}

	if err := validate.Struct(entity); err != nil {
		return validationError(entity, err)
	}
	return nil
}

func validationError(entity any, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Invalid("%s", err.Error())
	}

	kind := strings.TrimPrefix(fmt.Sprintf("%T", entity), "*catalog.")
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is longer than the maximum allowed length (%s)", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", field, fe.Tag()))
		}
	}
	return Invalid("%s validation failed: %s", kind, strings.Join(msgs, ", "))
}

var sortFields = map[string]string{
	"name":        "name",
	"pcode":       "PCode",
	"description": "description",
	"createdat":   "createdAt",
	"updatedat":   "updatedAt",
}

// ParseSort resolves a requested field and direction; unknown fields fall back to name.
func ParseSort(field, order string) Sort {
	f, ok := sortFields[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		f = "name"
	}
	return Sort{Field: f, Desc: order == "desc"}
}
