package postgres

import (
	"context"

	"spanco/internal/domain/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryStore struct {
	db *pgxpool.Pool
}

const categoryColumns = `id, name, image, image_public_id, created_at, updated_at`

func scanCategory(row pgx.Row) (*catalog.Category, error) {
	c := &catalog.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Image, &c.ImagePublicID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *categoryStore) List(ctx context.Context, sort catalog.Sort) ([]*catalog.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories`+orderBy(sort))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*catalog.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *categoryStore) GetByID(ctx context.Context, id string) (*catalog.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanCategory(s.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (s *categoryStore) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanCategory(s.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
}

func (s *categoryStore) RefsByIDs(ctx context.Context, ids []string) (map[string]catalog.Ref, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, `SELECT id, name, image FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]catalog.Ref, len(ids))
	for rows.Next() {
		var ref catalog.Ref
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Image); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}

func (s *categoryStore) Create(ctx context.Context, c *catalog.Category) error {
	if err := catalog.Validate(c); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (id, name, image, image_public_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns
	created, err := scanCategory(s.db.QueryRow(ctx, query, newID(), c.Name, c.Image, c.ImagePublicID))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (s *categoryStore) Update(ctx context.Context, c *catalog.Category) error {
	if err := catalog.Validate(c); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE categories
		SET name = $2, image = $3, image_public_id = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns
	updated, err := scanCategory(s.db.QueryRow(ctx, query, c.ID, c.Name, c.Image, c.ImagePublicID))
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

func (s *categoryStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM categories WHERE id = $1`, id)
}

type subcategoryStore struct {
	db *pgxpool.Pool
}

const subcategoryColumns = `id, name, parent_category, has_lab_categories, created_at, updated_at`

func scanSubcategory(row pgx.Row) (*catalog.Subcategory, error) {
	sub := &catalog.Subcategory{}
	err := row.Scan(&sub.ID, &sub.Name, &sub.ParentCategory.ID, &sub.HasLabCategories, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return sub, nil
}

func (s *subcategoryStore) List(ctx context.Context, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	return s.query(ctx, `SELECT `+subcategoryColumns+` FROM subcategories`+orderBy(sort))
}

func (s *subcategoryStore) ListByCategory(ctx context.Context, categoryID string, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	return s.query(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE parent_category = $1`+orderBy(sort), categoryID)
}

func (s *subcategoryStore) query(ctx context.Context, query string, args ...any) ([]*catalog.Subcategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*catalog.Subcategory{}
	for rows.Next() {
		sub, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *subcategoryStore) GetByID(ctx context.Context, id string) (*catalog.Subcategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanSubcategory(s.db.QueryRow(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id))
}

func (s *subcategoryStore) FindByName(ctx context.Context, name, categoryID string) (*catalog.Subcategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	query := `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE name = $1 AND parent_category = $2`
	return scanSubcategory(s.db.QueryRow(ctx, query, name, categoryID))
}

func (s *subcategoryStore) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return countRows(ctx, s.db, `SELECT count(*) FROM subcategories WHERE parent_category = $1`, categoryID)
}

func (s *subcategoryStore) RefsByIDs(ctx context.Context, ids []string) (map[string]catalog.Ref, error) {
	return nameRefs(ctx, s.db, "subcategories", ids)
}

func (s *subcategoryStore) Create(ctx context.Context, sub *catalog.Subcategory) error {
	if err := catalog.Validate(sub); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO subcategories (id, name, parent_category, has_lab_categories)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + subcategoryColumns
	created, err := scanSubcategory(s.db.QueryRow(ctx, query, newID(), sub.Name, sub.ParentCategory.ID, sub.HasLabCategories))
	if err != nil {
		return err
	}
	*sub = *created
	return nil
}

func (s *subcategoryStore) Update(ctx context.Context, sub *catalog.Subcategory) error {
	if err := catalog.Validate(sub); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE subcategories
		SET name = $2, parent_category = $3, has_lab_categories = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + subcategoryColumns
	updated, err := scanSubcategory(s.db.QueryRow(ctx, query, sub.ID, sub.Name, sub.ParentCategory.ID, sub.HasLabCategories))
	if err != nil {
		return err
	}
	*sub = *updated
	return nil
}

func (s *subcategoryStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM subcategories WHERE id = $1`, id)
}

type labCategoryStore struct {
	db *pgxpool.Pool
}

const labCategoryColumns = `id, name, parent_subcategory, created_at, updated_at`

func scanLabCategory(row pgx.Row) (*catalog.LabCategory, error) {
	l := &catalog.LabCategory{}
	if err := row.Scan(&l.ID, &l.Name, &l.ParentSubcategory.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (s *labCategoryStore) List(ctx context.Context, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	return s.query(ctx, `SELECT `+labCategoryColumns+` FROM lab_categories`+orderBy(sort))
}

func (s *labCategoryStore) ListBySubcategory(ctx context.Context, subcategoryID string, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	return s.query(ctx, `SELECT `+labCategoryColumns+` FROM lab_categories WHERE parent_subcategory = $1`+orderBy(sort), subcategoryID)
}

func (s *labCategoryStore) query(ctx context.Context, query string, args ...any) ([]*catalog.LabCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*catalog.LabCategory{}
	for rows.Next() {
		l, err := scanLabCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *labCategoryStore) GetByID(ctx context.Context, id string) (*catalog.LabCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanLabCategory(s.db.QueryRow(ctx, `SELECT `+labCategoryColumns+` FROM lab_categories WHERE id = $1`, id))
}

func (s *labCategoryStore) FindByName(ctx context.Context, name, subcategoryID string) (*catalog.LabCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	query := `SELECT ` + labCategoryColumns + ` FROM lab_categories WHERE name = $1 AND parent_subcategory = $2`
	return scanLabCategory(s.db.QueryRow(ctx, query, name, subcategoryID))
}

func (s *labCategoryStore) CountBySubcategory(ctx context.Context, subcategoryID string) (int, error) {
	return countRows(ctx, s.db, `SELECT count(*) FROM lab_categories WHERE parent_subcategory = $1`, subcategoryID)
}

func (s *labCategoryStore) RefsByIDs(ctx context.Context, ids []string) (map[string]catalog.Ref, error) {
	return nameRefs(ctx, s.db, "lab_categories", ids)
}

func (s *labCategoryStore) Create(ctx context.Context, l *catalog.LabCategory) error {
	if err := catalog.Validate(l); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO lab_categories (id, name, parent_subcategory)
		VALUES ($1, $2, $3)
		RETURNING ` + labCategoryColumns
	created, err := scanLabCategory(s.db.QueryRow(ctx, query, newID(), l.Name, l.ParentSubcategory.ID))
	if err != nil {
		return err
	}
	*l = *created
	return nil
}

func (s *labCategoryStore) Update(ctx context.Context, l *catalog.LabCategory) error {
	if err := catalog.Validate(l); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE lab_categories
		SET name = $2, parent_subcategory = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + labCategoryColumns
	updated, err := scanLabCategory(s.db.QueryRow(ctx, query, l.ID, l.Name, l.ParentSubcategory.ID))
	if err != nil {
		return err
	}
	*l = *updated
	return nil
}

func (s *labCategoryStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, `DELETE FROM lab_categories WHERE id = $1`, id)
}
