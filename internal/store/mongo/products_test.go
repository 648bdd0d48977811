package mongo

import (
	"testing"

	"spanco/internal/domain/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductFilterFacetsAndSearch(t *testing.T) {
	cat := primitive.NewObjectID()
	sub := primitive.NewObjectID()

	filter, ok := productFilter(catalog.ProductFilter{
		CategoryID:    cat.Hex(),
		SubcategoryID: sub.Hex(),
		Search:        "a.b",
	})
	require.True(t, ok)
	require.Len(t, filter, 3)

	assert.Equal(t, bson.E{Key: "categories", Value: cat}, filter[0])
	assert.Equal(t, bson.E{Key: "subCategory", Value: sub}, filter[1])
	assert.Equal(t, "$or", filter[2].Key)

	or, ok := filter[2].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, or, len(searchFields))
	first := or[0].(bson.D)
	assert.Equal(t, "name", first[0].Key)
	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, first[0].Value)
}

func TestProductFilterEmpty(t *testing.T) {
	filter, ok := productFilter(catalog.ProductFilter{})
	require.True(t, ok)
	assert.Empty(t, filter)
}

func TestProductFilterMalformedFacet(t *testing.T) {
	_, ok := productFilter(catalog.ProductFilter{LabCategoryID: "not-an-id"})
	assert.False(t, ok)
}

func TestSortDoc(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		sortDoc(catalog.SortNewest))
	assert.Equal(t,
		bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
		sortDoc(catalog.Sort{}))
}

func TestProductDocRoundTrip(t *testing.T) {
	cat := primitive.NewObjectID().Hex()
	sub := primitive.NewObjectID().Hex()
	p := &catalog.Product{
		Name:                   "Flask",
		PCode:                  "F1",
		Categories:             []catalog.Ref{{ID: cat, Name: "ignored"}},
		SubCategory:            &catalog.Ref{ID: sub},
		TechnicalSpecification: []catalog.TechSpec{{Label: "Volume", Value: "250ml"}},
	}

	doc, err := newProductDoc(p)
	require.NoError(t, err)
	assert.Nil(t, doc.LabCategory)

	back := doc.toDomain()
	assert.Equal(t, []catalog.Ref{{ID: cat}}, back.Categories)
	assert.Equal(t, sub, back.SubCategoryID())
	assert.Nil(t, back.LabCategory)
	assert.Equal(t, p.TechnicalSpecification, back.TechnicalSpecification)
	assert.Equal(t, []string{}, back.Image)

	p.LabCategory = &catalog.Ref{ID: "bad"}
	_, err = newProductDoc(p)
	assert.ErrorIs(t, err, catalog.ErrValidation)
}
