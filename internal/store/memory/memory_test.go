package memory

import (
	"context"
	"fmt"
	"testing"

	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUniqueName(t *testing.T) {
	ctx := context.Background()
	s := New().Catalog()

	c := &catalog.Category{Name: "Glassware", Image: "memory://a"}
	require.NoError(t, s.Categories.Create(ctx, c))
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	err := s.Categories.Create(ctx, &catalog.Category{Name: "Glassware", Image: "memory://b"})
	assert.ErrorIs(t, err, catalog.ErrConflict)

	err = s.Categories.Create(ctx, &catalog.Category{Name: "  ", Image: "memory://c"})
	assert.ErrorIs(t, err, catalog.ErrValidation)
}

func TestSubcategoryScopedUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New().Catalog()

	a := &catalog.Category{Name: "A", Image: "x"}
	b := &catalog.Category{Name: "B", Image: "x"}
	require.NoError(t, s.Categories.Create(ctx, a))
	require.NoError(t, s.Categories.Create(ctx, b))

	require.NoError(t, s.Subcategories.Create(ctx, &catalog.Subcategory{Name: "Beakers", ParentCategory: catalog.Ref{ID: a.ID}}))
	require.NoError(t, s.Subcategories.Create(ctx, &catalog.Subcategory{Name: "Beakers", ParentCategory: catalog.Ref{ID: b.ID}}))

	err := s.Subcategories.Create(ctx, &catalog.Subcategory{Name: "Beakers", ParentCategory: catalog.Ref{ID: a.ID}})
	assert.ErrorIs(t, err, catalog.ErrConflict)

	n, err := s.Subcategories.CountByCategory(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListSortOrders(t *testing.T) {
	ctx := context.Background()
	s := New().Catalog()

	for _, name := range []string{"b", "c", "a"} {
		require.NoError(t, s.Categories.Create(ctx, &catalog.Category{Name: name, Image: "x"}))
	}

	newest, err := s.Categories.List(ctx, catalog.SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, names(newest))

	byName, err := s.Categories.List(ctx, catalog.SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(byName))
}

func names(cs []*catalog.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestProductListWindowAndFilter(t *testing.T) {
	ctx := context.Background()
	s := New().Catalog()

	for i := 0; i < 25; i++ {
		p := &catalog.Product{
			Name:        fmt.Sprintf("Item %02d", i),
			PCode:       fmt.Sprintf("p%02d", i),
			SubCategory: &catalog.Ref{ID: "sub"},
		}
		require.NoError(t, s.Products.Create(ctx, p))
		assert.Equal(t, fmt.Sprintf("P%02d", i), p.PCode)
	}

	q := catalog.ProductQuery{Filter: catalog.ProductFilter{SubcategoryID: "sub"}, Sort: catalog.SortByName, Skip: 20, Limit: 10}
	page, err := s.Products.List(ctx, q)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, "Item 20", page[0].Name)

	q.Skip = 100
	page, err = s.Products.List(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, page)

	n, err := s.Products.Count(ctx, catalog.ProductFilter{Search: "item 1"})
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	err = s.Products.Create(ctx, &catalog.Product{Name: "dup", PCode: "P00", SubCategory: &catalog.Ref{ID: "sub"}})
	assert.ErrorIs(t, err, catalog.ErrConflict)
}

func TestProductStoredCopyIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := New().Catalog()

	p := &catalog.Product{Name: "Flask", PCode: "F1", SubCategory: &catalog.Ref{ID: "sub", Name: "Expanded"}}
	require.NoError(t, s.Products.Create(ctx, p))
	p.Name = "mutated"

	got, err := s.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flask", got.Name)
	assert.Equal(t, "", got.SubCategory.Name)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New().Users()

	u := &users.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, u.Password.Set("secret123"))
	require.NoError(t, s.Create(ctx, u))

	err := s.Create(ctx, &users.User{Name: "Other", Email: "ana@example.com"})
	assert.ErrorIs(t, err, users.ErrDuplicateEmail)

	got, err := s.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NoError(t, got.Password.Compare("secret123"))

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, users.ErrNotFound)
}
