package postgres

import (
	"strings"
	"testing"

	"spanco/internal/domain/catalog"

	"github.com/stretchr/testify/assert"
)

func TestProductWhere(t *testing.T) {
	tests := []struct {
		name     string
		filter   catalog.ProductFilter
		contains []string
		args     []any
	}{
		{
			name:   "empty",
			filter: catalog.ProductFilter{},
		},
		{
			name:     "category facet",
			filter:   catalog.ProductFilter{CategoryID: "c1"},
			contains: []string{"$1 = ANY(categories)"},
			args:     []any{"c1"},
		},
		{
			name:     "facets and search",
			filter:   catalog.ProductFilter{SubcategoryID: "s1", LabCategoryID: "l1", Search: "50%_a"},
			contains: []string{"sub_category = $1", "lab_category = $2", "name ILIKE $3", "ts->>'value' ILIKE $3", " AND "},
			args:     []any{"s1", "l1", `%50\%\_a%`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			where, args := productWhere(tc.filter)
			if len(tc.contains) == 0 {
				assert.Empty(t, where)
				assert.Empty(t, args)
				return
			}
			assert.True(t, strings.HasPrefix(where, " WHERE "))
			for _, c := range tc.contains {
				assert.Contains(t, where, c)
			}
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, ` ORDER BY "created_at" DESC, id DESC`, orderBy(catalog.SortNewest))
	assert.Equal(t, ` ORDER BY "pcode" ASC, id ASC`, orderBy(catalog.Sort{Field: "PCode"}))
	assert.Equal(t, ` ORDER BY "name" ASC, id ASC`, orderBy(catalog.Sort{Field: "drop table"}))
}
