package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"spanco/internal/params"
)

const productCachePrefix = "products:"

// ProductCacheTTL is how long a listing page may be served from cache.
var ProductCacheTTL = 2 * time.Minute

// Default page sizes per listing call site.
const (
	DefaultProductLimit            = 10
	DefaultSubcategoryProductLimit = 50
)

// ListParams is the parsed form of the listing query string.
type ListParams struct {
	Paging params.Pagination
	Search string
	Sort   Sort

	// Facets; scoped listings override the one they are anchored to and ignore the rest.
	CategoryID    string
	SubcategoryID string
	LabCategoryID string
}

// ParseListParams reads page, limit, search, category, subCategory, labCategory, sortBy and sortOrder.
func ParseListParams(q url.Values, defaultLimit int) ListParams {
	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "name"
	}
	return ListParams{
		Paging:        params.ParsePagination(q, defaultLimit),
		Search:        strings.TrimSpace(q.Get("search")),
		Sort:          ParseSort(sortBy, q.Get("sortOrder")),
		CategoryID:    strings.TrimSpace(q.Get("category")),
		SubcategoryID: strings.TrimSpace(q.Get("subCategory")),
		LabCategoryID: strings.TrimSpace(q.Get("labCategory")),
	}
}

// ProductPage is one page of products plus page metadata and, for scoped
// listings, the scoping entity's name and parent.
type ProductPage struct {
	Items      []*Product        `json:"data"`
	Pagination params.Pagination `json:"pagination"`

	Category          string `json:"category,omitempty"`
	SubCategory       string `json:"subCategory,omitempty"`
	ParentCategories  *Ref   `json:"parentCategories,omitempty"`
	LabCategory       string `json:"labCategory,omitempty"`
	ParentSubcategory *Ref   `json:"parentSubcategory,omitempty"`
}

// ListProducts applies every facet present in lp.
func (s *Service) ListProducts(ctx context.Context, lp ListParams) (*ProductPage, error) {
	f := ProductFilter{
		CategoryID:    lp.CategoryID,
		SubcategoryID: lp.SubcategoryID,
		LabCategoryID: lp.LabCategoryID,
		Search:        lp.Search,
	}
	return s.listProducts(ctx, f, lp)
}

func (s *Service) ListProductsByCategory(ctx context.Context, categoryID string, lp ListParams) (*ProductPage, error) {
	c, err := s.store.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, asNotFound(err, "category", "Category not found")
	}

	page, err := s.listProducts(ctx, ProductFilter{CategoryID: categoryID, Search: lp.Search}, lp)
	if err != nil {
		return nil, err
	}
	page.Category = c.Name
	return page, nil
}

func (s *Service) ListProductsBySubcategory(ctx context.Context, subcategoryID string, lp ListParams) (*ProductPage, error) {
	sub, err := s.findSubcategory(ctx, subcategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.populateSubcategories(ctx, []*Subcategory{sub}, false); err != nil {
		return nil, err
	}

	page, err := s.listProducts(ctx, ProductFilter{SubcategoryID: subcategoryID, Search: lp.Search}, lp)
	if err != nil {
		return nil, err
	}
	page.SubCategory = sub.Name
	page.ParentCategories = &sub.ParentCategory
	return page, nil
}

func (s *Service) ListProductsByLabCategory(ctx context.Context, labCategoryID string, lp ListParams) (*ProductPage, error) {
	lab, err := s.store.LabCategories.GetByID(ctx, labCategoryID)
	if err != nil {
		return nil, asNotFound(err, "labcategory", "Lab Category not found")
	}
	if err := s.populateLabCategories(ctx, []*LabCategory{lab}); err != nil {
		return nil, err
	}

	page, err := s.listProducts(ctx, ProductFilter{LabCategoryID: labCategoryID, Search: lp.Search}, lp)
	if err != nil {
		return nil, err
	}
	page.LabCategory = lab.Name
	page.ParentSubcategory = &lab.ParentSubcategory
	return page, nil
}

// listProducts runs the page query and the count over the same predicate,
// expands references and fills the page metadata.
func (s *Service) listProducts(ctx context.Context, f ProductFilter, lp ListParams) (*ProductPage, error) {
	paging := lp.Paging
	if paging.Limit <= 0 {
		paging = params.New(paging.CurrentPage, 0, DefaultProductLimit)
	}

	q := ProductQuery{
		Filter: f,
		Sort:   lp.Sort,
		Skip:   paging.Offset,
		Limit:  paging.Limit,
	}
	if q.Sort.Field == "" {
		q.Sort = SortByName
	}

	key := productCacheKey(s.generation.Load(), q)
	var cached ProductPage
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		s.logger.Warnw("product cache read failed", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	items, err := s.store.Products.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	total, err := s.store.Products.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if err := s.populateProducts(ctx, items); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*Product{}
	}
	paging.ComputeMeta(total)
	page := &ProductPage{Items: items, Pagination: paging}

	if err := s.cache.SetJSON(ctx, key, page, ProductCacheTTL); err != nil {
		s.logger.Warnw("product cache write failed", "key", key, "error", err)
	}
	return page, nil
}

func productCacheKey(generation uint64, q ProductQuery) string {
	raw := fmt.Sprintf("g=%d|c=%s|s=%s|l=%s|q=%s|sort=%s:%t|skip=%d|limit=%d",
		generation, q.Filter.CategoryID, q.Filter.SubcategoryID, q.Filter.LabCategoryID, q.Filter.Search,
		q.Sort.Field, q.Sort.Desc, q.Skip, q.Limit)
	sum := sha1.Sum([]byte(raw))
	return productCachePrefix + "list:" + hex.EncodeToString(sum[:])
}

// MatchesProduct evaluates the filter against a product in memory. It is the
// reference semantics the database drivers translate: every facet present must
// hold, and a non-empty search must occur, ignoring case, in the name,
// description, PCode or any technical specification label or value.
func MatchesProduct(f ProductFilter, p *Product) bool {
	if f.CategoryID != "" && !containsID(p.CategoryIDs(), f.CategoryID) {
		return false
	}
	if f.SubcategoryID != "" && p.SubCategoryID() != f.SubcategoryID {
		return false
	}
	if f.LabCategoryID != "" && p.LabCategoryID() != f.LabCategoryID {
		return false
	}
	if f.Search == "" {
		return true
	}

	needle := strings.ToLower(f.Search)
	fields := []string{p.Name, p.Description, p.PCode}
	for _, ts := range p.TechnicalSpecification {
		fields = append(fields, ts.Label, ts.Value)
	}
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
