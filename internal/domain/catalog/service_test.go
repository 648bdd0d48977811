package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"spanco/internal/assets"
	"spanco/internal/cache"
	"spanco/internal/domain/catalog"
	"spanco/internal/params"
	"spanco/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *catalog.Service
	assets *assets.Memory
	cache  *cache.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	a := assets.NewMemory()
	c := cache.NewMemory()
	return &fixture{
		svc:    catalog.NewService(memory.New().Catalog(), a, c, nil),
		assets: a,
		cache:  c,
	}
}

func image(name string) *catalog.Upload {
	return &catalog.Upload{File: bytes.NewReader([]byte("img")), Filename: name}
}

func (f *fixture) category(t *testing.T, name string) *catalog.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), catalog.CategoryInput{Name: name, Image: image(name + ".png")})
	require.NoError(t, err)
	return c
}

func (f *fixture) subcategory(t *testing.T, name, categoryID string) *catalog.Subcategory {
	t.Helper()
	s, err := f.svc.CreateSubcategory(context.Background(), catalog.SubcategoryInput{Name: name, ParentCategoryID: categoryID})
	require.NoError(t, err)
	return s
}

func (f *fixture) labCategory(t *testing.T, name, subcategoryID string) *catalog.LabCategory {
	t.Helper()
	l, err := f.svc.CreateLabCategory(context.Background(), catalog.LabCategoryInput{Name: name, ParentSubcategoryID: subcategoryID})
	require.NoError(t, err)
	return l
}

func TestHierarchyGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	glass := f.category(t, "Glassware")
	plastic := f.category(t, "Plasticware")

	t.Run("missing parent", func(t *testing.T) {
		_, err := f.svc.CreateSubcategory(ctx, catalog.SubcategoryInput{Name: "Beakers", ParentCategoryID: "nope"})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Equal(t, "Category not found", err.Error())

		_, err = f.svc.CreateLabCategory(ctx, catalog.LabCategoryInput{Name: "Boro", ParentSubcategoryID: "nope"})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("name unique within parent only", func(t *testing.T) {
		f.subcategory(t, "Beakers", glass.ID)

		_, err := f.svc.CreateSubcategory(ctx, catalog.SubcategoryInput{Name: "Beakers", ParentCategoryID: glass.ID})
		assert.ErrorIs(t, err, catalog.ErrConflict)
		assert.Equal(t, "Subcategory already exists in this category", err.Error())

		f.subcategory(t, "Beakers", plastic.ID)
	})

	t.Run("category names are global", func(t *testing.T) {
		_, err := f.svc.CreateCategory(ctx, catalog.CategoryInput{Name: "Glassware", Image: image("g.png")})
		assert.ErrorIs(t, err, catalog.ErrConflict)
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := f.svc.CreateSubcategory(ctx, catalog.SubcategoryInput{
			Name: string(bytes.Repeat([]byte("x"), 51)), ParentCategoryID: glass.ID,
		})
		assert.ErrorIs(t, err, catalog.ErrValidation)
	})

	t.Run("delete blocked while children exist", func(t *testing.T) {
		err := f.svc.DeleteCategory(ctx, glass.ID)
		assert.ErrorIs(t, err, catalog.ErrConflict)

		_, err = f.svc.GetCategory(ctx, glass.ID)
		assert.NoError(t, err)
		assert.True(t, f.assets.Has(glass.ImagePublicID))
	})

	t.Run("update checks the new parent", func(t *testing.T) {
		subs, err := f.svc.ListSubcategoriesByCategory(ctx, plastic.ID)
		require.NoError(t, err)
		require.Len(t, subs, 1)

		_, err = f.svc.UpdateSubcategory(ctx, subs[0].ID, catalog.SubcategoryInput{ParentCategoryID: "nope"})
		assert.ErrorIs(t, err, catalog.ErrNotFound)

		yes := true
		updated, err := f.svc.UpdateSubcategory(ctx, subs[0].ID, catalog.SubcategoryInput{Name: "Bottles", HasLabCategories: &yes})
		require.NoError(t, err)
		assert.Equal(t, "Bottles", updated.Name)
		assert.True(t, updated.HasLabCategories)
		assert.Equal(t, "Plasticware", updated.ParentCategory.Name)
	})

	t.Run("moving onto a taken name", func(t *testing.T) {
		metals := f.category(t, "Metalware")
		f.subcategory(t, "Stands", metals.ID)
		stands := f.subcategory(t, "Stands", glass.ID)

		_, err := f.svc.UpdateSubcategory(ctx, stands.ID, catalog.SubcategoryInput{ParentCategoryID: metals.ID})
		assert.ErrorIs(t, err, catalog.ErrConflict)
		assert.Equal(t, "Subcategory name already exists in this category", err.Error())

		got, err := f.svc.GetSubcategory(ctx, stands.ID)
		require.NoError(t, err)
		assert.Equal(t, glass.ID, got.ParentCategory.ID)

		moved, err := f.svc.UpdateSubcategory(ctx, stands.ID, catalog.SubcategoryInput{Name: "Clamps", ParentCategoryID: metals.ID})
		require.NoError(t, err)
		assert.Equal(t, "Clamps", moved.Name)
		assert.Equal(t, metals.ID, moved.ParentCategory.ID)

		lab := f.labCategory(t, "Boro", stands.ID)
		other := f.subcategory(t, "Racks", metals.ID)
		f.labCategory(t, "Boro", other.ID)

		_, err = f.svc.UpdateLabCategory(ctx, lab.ID, catalog.LabCategoryInput{ParentSubcategoryID: other.ID})
		assert.ErrorIs(t, err, catalog.ErrConflict)
		assert.Equal(t, "Lab category name already exists in this subcategory", err.Error())

		same, err := f.svc.UpdateLabCategory(ctx, lab.ID, catalog.LabCategoryInput{Name: "Boro", ParentSubcategoryID: stands.ID})
		require.NoError(t, err)
		assert.Equal(t, "Boro", same.Name)
	})

	t.Run("subcategory detail carries the parent image", func(t *testing.T) {
		subs, err := f.svc.ListSubcategoriesByCategory(ctx, glass.ID)
		require.NoError(t, err)
		require.Len(t, subs, 1)

		sub, err := f.svc.GetSubcategory(ctx, subs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, glass.Image, sub.ParentCategory.Image)
		assert.Equal(t, "Glassware", sub.ParentCategory.Name)
	})
}

func TestLabCategoryDeleteLeavesProductsDangling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c := f.category(t, "Glassware")
	sub := f.subcategory(t, "Beakers", c.ID)
	lab := f.labCategory(t, "Boro", sub.ID)

	p, err := f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "Beaker", PCode: "b1", SubCategoryID: sub.ID, LabCategoryID: lab.ID})
	require.NoError(t, err)

	err = f.svc.DeleteSubcategory(ctx, sub.ID)
	assert.ErrorIs(t, err, catalog.ErrConflict)

	require.NoError(t, f.svc.DeleteLabCategory(ctx, lab.ID))

	got, err := f.svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LabCategory)
	assert.Equal(t, "Beakers", got.SubCategory.Name)
}

func TestProductPCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "Glassware")
	sub := f.subcategory(t, "Beakers", c.ID)

	p, err := f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "Beaker", PCode: " abc1 ", SubCategoryID: sub.ID})
	require.NoError(t, err)
	assert.Equal(t, "ABC1", p.PCode)

	got, err := f.svc.GetProductByPCode(ctx, "abc1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "Other", PCode: "Abc1", SubCategoryID: sub.ID})
	assert.ErrorIs(t, err, catalog.ErrConflict)

	other, err := f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "Other", PCode: "xyz", SubCategoryID: sub.ID})
	require.NoError(t, err)

	t.Run("update keeps its own code", func(t *testing.T) {
		updated, err := f.svc.UpdateProduct(ctx, p.ID, catalog.ProductInput{Name: "Beaker 2", PCode: "abc1", SubCategoryID: sub.ID})
		require.NoError(t, err)
		assert.Equal(t, "Beaker 2", updated.Name)
		assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("update onto another code", func(t *testing.T) {
		_, err := f.svc.UpdateProduct(ctx, other.ID, catalog.ProductInput{Name: "Other", PCode: "ABC1", SubCategoryID: sub.ID})
		assert.ErrorIs(t, err, catalog.ErrConflict)
	})

	t.Run("blank tech spec rows are rejected", func(t *testing.T) {
		_, err := f.svc.CreateProduct(ctx, catalog.ProductInput{
			Name: "Spec", PCode: "s1", SubCategoryID: sub.ID,
			TechnicalSpecification: []catalog.TechSpec{{Label: "Volume"}},
		})
		assert.ErrorIs(t, err, catalog.ErrValidation)
	})
}

func listParams(page, limit int) catalog.ListParams {
	return catalog.ListParams{Paging: params.New(page, limit, catalog.DefaultProductLimit), Sort: catalog.SortByName}
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "Glassware")
	sub := f.subcategory(t, "Beakers", c.ID)
	otherSub := f.subcategory(t, "Flasks", c.ID)

	for i := 1; i <= 25; i++ {
		in := catalog.ProductInput{Name: fmt.Sprintf("Item %02d", i), PCode: fmt.Sprintf("P%02d", i), SubCategoryID: sub.ID}
		if i > 20 {
			in.SubCategoryID = otherSub.ID
			in.Description = "Heat RESISTANT"
		}
		_, err := f.svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		lp        catalog.ListParams
		wantItems int
		wantTotal int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first page", listParams(1, 10), 10, 25, 3, true, false},
		{"last partial page", listParams(3, 10), 5, 25, 3, false, true},
		{"past the end", listParams(9, 10), 0, 25, 3, false, true},
		{"unbounded limit", listParams(1, 1000), 25, 25, 1, false, false},
		{"page past the addressable range", listParams(math.MaxInt, 2), 0, 25, 13, false, true},
		{"search is case-insensitive", func() catalog.ListParams {
			lp := listParams(1, 10)
			lp.Search = "item 1"
			return lp
		}(), 10, 10, 1, false, false},
		{"search covers description", func() catalog.ListParams {
			lp := listParams(1, 10)
			lp.Search = "resistant"
			return lp
		}(), 5, 5, 1, false, false},
		{"facets and search combine", func() catalog.ListParams {
			lp := listParams(1, 10)
			lp.SubcategoryID = sub.ID
			lp.Search = "item 2"
			return lp
		}(), 1, 1, 1, false, false},
		{"regex characters are literal", func() catalog.ListParams {
			lp := listParams(1, 10)
			lp.Search = "item.*"
			return lp
		}(), 0, 0, 0, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := f.svc.ListProducts(ctx, tc.lp)
			require.NoError(t, err)
			assert.Len(t, page.Items, tc.wantItems)
			assert.Equal(t, tc.wantTotal, page.Pagination.TotalCount)
			assert.Equal(t, tc.wantTotal, page.Pagination.TotalProducts)
			assert.Equal(t, tc.wantPages, page.Pagination.TotalPages)
			assert.Equal(t, tc.wantNext, page.Pagination.HasNextPage)
			assert.Equal(t, tc.wantPrev, page.Pagination.HasPrevPage)
			assert.NotNil(t, page.Items)
		})
	}

	t.Run("references are expanded", func(t *testing.T) {
		page, err := f.svc.ListProducts(ctx, listParams(1, 1))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, &catalog.Ref{ID: sub.ID, Name: "Beakers"}, page.Items[0].SubCategory)
	})

	t.Run("scoped listing of an unknown entity", func(t *testing.T) {
		_, err := f.svc.ListProductsByCategory(ctx, "nope", listParams(1, 10))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = f.svc.ListProductsBySubcategory(ctx, "nope", listParams(1, 10))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = f.svc.ListProductsByLabCategory(ctx, "nope", listParams(1, 10))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("scoped listing echoes the scope", func(t *testing.T) {
		page, err := f.svc.ListProductsBySubcategory(ctx, otherSub.ID, listParams(1, 50))
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
		assert.Equal(t, "Flasks", page.SubCategory)
		assert.Equal(t, &catalog.Ref{ID: c.ID, Name: "Glassware"}, page.ParentCategories)
	})
}

func TestListingCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "Glassware")
	sub := f.subcategory(t, "Beakers", c.ID)

	_, err := f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "One", PCode: "1", SubCategoryID: sub.ID})
	require.NoError(t, err)

	page, err := f.svc.ListProducts(ctx, listParams(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, f.cache.Len())

	_, err = f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "Two", PCode: "2", SubCategoryID: sub.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.Len())

	page, err = f.svc.ListProducts(ctx, listParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	_, err = f.svc.UpdateSubcategory(ctx, sub.ID, catalog.SubcategoryInput{Name: "Jars"})
	require.NoError(t, err)
	page, err = f.svc.ListProducts(ctx, listParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, "Jars", page.Items[0].SubCategory.Name)
}

// writeDuringFill runs a write between a listing's store read and its cache fill.
type writeDuringFill struct {
	*cache.Memory
	write func()
}

func (c *writeDuringFill) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if w := c.write; w != nil {
		c.write = nil
		w()
	}
	return c.Memory.SetJSON(ctx, key, v, ttl)
}

func TestListingCacheIgnoresFillAfterWrite(t *testing.T) {
	ctx := context.Background()
	a := assets.NewMemory()
	c := &writeDuringFill{Memory: cache.NewMemory()}
	svc := catalog.NewService(memory.New().Catalog(), a, c, nil)

	cat, err := svc.CreateCategory(ctx, catalog.CategoryInput{Name: "Glassware", Image: image("g.png")})
	require.NoError(t, err)
	sub, err := svc.CreateSubcategory(ctx, catalog.SubcategoryInput{Name: "Beakers", ParentCategoryID: cat.ID})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, catalog.ProductInput{Name: "One", PCode: "1", SubCategoryID: sub.ID})
	require.NoError(t, err)

	c.write = func() {
		_, err := svc.CreateProduct(ctx, catalog.ProductInput{Name: "Two", PCode: "2", SubCategoryID: sub.ID})
		require.NoError(t, err)
	}

	page, err := svc.ListProducts(ctx, listParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = svc.ListProducts(ctx, listParams(1, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestCategoryAssetLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("image required before anything is uploaded", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateCategory(ctx, catalog.CategoryInput{Name: "Glassware"})
		assert.ErrorIs(t, err, catalog.ErrValidation)
		assert.Equal(t, 0, f.assets.Len())
	})

	t.Run("invalid name does not upload", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateCategory(ctx, catalog.CategoryInput{Name: "  ", Image: image("a.png")})
		assert.ErrorIs(t, err, catalog.ErrValidation)
		assert.Equal(t, 0, f.assets.Len())
	})

	t.Run("replacing the image destroys the old one", func(t *testing.T) {
		f := newFixture(t)
		c := f.category(t, "Glassware")

		updated, err := f.svc.UpdateCategory(ctx, c.ID, catalog.CategoryInput{Image: image("b.png")})
		require.NoError(t, err)
		assert.Equal(t, []string{c.ImagePublicID}, f.assets.Destroyed())
		assert.True(t, f.assets.Has(updated.ImagePublicID))
	})

	t.Run("failed destroy on replace keeps the entity", func(t *testing.T) {
		f := newFixture(t)
		c := f.category(t, "Glassware")
		f.assets.FailDestroy = errors.New("cdn down")

		_, err := f.svc.UpdateCategory(ctx, c.ID, catalog.CategoryInput{Image: image("b.png")})
		require.Error(t, err)

		got, err := f.svc.GetCategory(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ImagePublicID, got.ImagePublicID)
	})

	t.Run("failed destroy on delete keeps the entity", func(t *testing.T) {
		f := newFixture(t)
		c := f.category(t, "Glassware")
		f.assets.FailDestroy = errors.New("cdn down")

		require.Error(t, f.svc.DeleteCategory(ctx, c.ID))
		_, err := f.svc.GetCategory(ctx, c.ID)
		assert.NoError(t, err)
	})

	t.Run("delete destroys the image", func(t *testing.T) {
		f := newFixture(t)
		c := f.category(t, "Glassware")

		require.NoError(t, f.svc.DeleteCategory(ctx, c.ID))
		assert.False(t, f.assets.Has(c.ImagePublicID))
		_, err := f.svc.GetCategory(ctx, c.ID)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("update of a missing product uploads nothing", func(t *testing.T) {
		f := newFixture(t)
		c := f.category(t, "Glassware")
		sub := f.subcategory(t, "Beakers", c.ID)
		p, err := f.svc.CreateProduct(ctx, catalog.ProductInput{Name: "One", PCode: "1", SubCategoryID: sub.ID})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteProduct(ctx, p.ID))
		_, err = f.svc.UpdateProduct(ctx, p.ID, catalog.ProductInput{Name: "One", PCode: "1", SubCategoryID: sub.ID, Image: image("p.png")})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Equal(t, 1, f.assets.Len())
	})

	t.Run("product upload replaces the image list", func(t *testing.T) {
		f := newFixture(t)
		c := f.category(t, "Glassware")
		sub := f.subcategory(t, "Beakers", c.ID)

		p, err := f.svc.CreateProduct(ctx, catalog.ProductInput{
			Name: "One", PCode: "1", SubCategoryID: sub.ID,
			ImageURLs: []string{"https://cdn.example/a.png", "https://cdn.example/b.png"},
		})
		require.NoError(t, err)
		assert.Len(t, p.Image, 2)

		updated, err := f.svc.UpdateProduct(ctx, p.ID, catalog.ProductInput{Name: "One", PCode: "1", SubCategoryID: sub.ID, Image: image("p.png")})
		require.NoError(t, err)
		require.Len(t, updated.Image, 1)
		assert.Eventually(t, func() bool { return f.assets.Len() == 2 }, time.Second, 10*time.Millisecond)
	})
}

func TestMatchesProduct(t *testing.T) {
	p := &catalog.Product{
		Name:                   "Conical Flask",
		Description:            "Narrow neck",
		PCode:                  "CF-250",
		Categories:             []catalog.Ref{{ID: "c1"}, {ID: "c2"}},
		SubCategory:            &catalog.Ref{ID: "s1"},
		TechnicalSpecification: []catalog.TechSpec{{Label: "Material", Value: "Borosilicate 3.3"}},
	}

	tests := []struct {
		name   string
		filter catalog.ProductFilter
		want   bool
	}{
		{"empty", catalog.ProductFilter{}, true},
		{"second category", catalog.ProductFilter{CategoryID: "c2"}, true},
		{"other category", catalog.ProductFilter{CategoryID: "c3"}, false},
		{"subcategory", catalog.ProductFilter{SubcategoryID: "s1"}, true},
		{"lab category absent", catalog.ProductFilter{LabCategoryID: "l1"}, false},
		{"pcode", catalog.ProductFilter{Search: "cf-2"}, true},
		{"spec value", catalog.ProductFilter{Search: "BOROSILICATE"}, true},
		{"spec label", catalog.ProductFilter{Search: "materi"}, true},
		{"facet and search both needed", catalog.ProductFilter{SubcategoryID: "s2", Search: "flask"}, false},
		{"no match", catalog.ProductFilter{Search: "pipette"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, catalog.MatchesProduct(tc.filter, p))
		})
	}
}
