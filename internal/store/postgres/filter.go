package postgres

import (
	"fmt"
	"strings"

	"spanco/internal/domain/catalog"

	"github.com/lib/pq"
)

var sortColumns = map[string]string{
	"name":        "name",
	"PCode":       "pcode",
	"description": "description",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// orderBy renders a whitelisted ORDER BY clause with id as the tie breaker.
func orderBy(s catalog.Sort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", pq.QuoteIdentifier(col), dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productWhere builds the WHERE clause for a listing filter; placeholders are
// numbered from 1 and args holds their values.
func productWhere(f catalog.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID != "" {
		conds = append(conds, next(f.CategoryID)+" = ANY(categories)")
	}
	if f.SubcategoryID != "" {
		conds = append(conds, "sub_category = "+next(f.SubcategoryID))
	}
	if f.LabCategoryID != "" {
		conds = append(conds, "lab_category = "+next(f.LabCategoryID))
	}
	if f.Search != "" {
		p := next("%" + likeEscaper.Replace(f.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE %[1]s OR description ILIKE %[1]s OR pcode ILIKE %[1]s"+
				" OR EXISTS (SELECT 1 FROM jsonb_array_elements(technical_specification) ts"+
				" WHERE ts->>'label' ILIKE %[1]s OR ts->>'value' ILIKE %[1]s))", p))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
