package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"spanco/internal/domain/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productStore struct {
	db *pgxpool.Pool
}

const productColumns = `id, name, description, pcode, images, categories, sub_category, lab_category,
	technical_specification, created_at, updated_at`

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var (
		p          catalog.Product
		categories []string
		sub, lab   *string
		spec       []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PCode, &p.Image, &categories, &sub, &lab,
		&spec, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	if p.Image == nil {
		p.Image = []string{}
	}
	p.Categories = make([]catalog.Ref, 0, len(categories))
	for _, id := range categories {
		p.Categories = append(p.Categories, catalog.Ref{ID: id})
	}
	if sub != nil {
		p.SubCategory = &catalog.Ref{ID: *sub}
	}
	if lab != nil {
		p.LabCategory = &catalog.Ref{ID: *lab}
	}
	p.TechnicalSpecification = []catalog.TechSpec{}
	if len(spec) > 0 {
		if err := json.Unmarshal(spec, &p.TechnicalSpecification); err != nil {
			return nil, fmt.Errorf("decode technical specification: %w", err)
		}
	}
	return &p, nil
}

// productArgs returns the column values shared by insert and update, in
// column order starting at name.
func productArgs(p *catalog.Product) ([]any, error) {
	spec, err := json.Marshal(p.TechnicalSpecification)
	if err != nil {
		return nil, err
	}
	var sub, lab *string
	if id := p.SubCategoryID(); id != "" {
		sub = &id
	}
	if id := p.LabCategoryID(); id != "" {
		lab = &id
	}
	return []any{p.Name, p.Description, p.PCode, p.Image, p.CategoryIDs(), sub, lab, string(spec)}, nil
}

func (s *productStore) List(ctx context.Context, q catalog.ProductQuery) ([]*catalog.Product, error) {
	where, args := productWhere(q.Filter)
	query := `SELECT ` + productColumns + ` FROM products` + where + orderBy(q.Sort)
	args = append(args, q.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *productStore) Count(ctx context.Context, f catalog.ProductFilter) (int, error) {
	where, args := productWhere(f)
	return countRows(ctx, s.db, `SELECT count(*) FROM products`+where, args...)
}

func (s *productStore) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (s *productStore) GetByPCode(ctx context.Context, pcode string) (*catalog.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE pcode = $1`, pcode))
}

func (s *productStore) Create(ctx context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (id, name, description, pcode, images, categories, sub_category, lab_category, technical_specification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		RETURNING ` + productColumns
	created, err := scanProduct(s.db.QueryRow(ctx, query, append([]any{newID()}, args...)...))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (s *productStore) Update(ctx context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $2, description = $3, pcode = $4, images = $5, categories = $6,
			sub_category = $7, lab_category = $8, technical_specification = $9::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	updated, err := scanProduct(s.db.QueryRow(ctx, query, append([]any{p.ID}, args...)...))
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (s *productStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM products WHERE id = $1`, id)
}
