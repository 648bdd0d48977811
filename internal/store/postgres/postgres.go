// Package postgres stores the catalog in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (d *DB) Catalog() catalog.Store {
	return catalog.Store{
		Categories:    &categoryStore{db: d.pool},
		Subcategories: &subcategoryStore{db: d.pool},
		LabCategories: &labCategoryStore{db: d.pool},
		Products:      &productStore{db: d.pool},
	}
}

func (d *DB) Users() users.Store {
	return &userStore{db: d.pool}
}

// References between tables are weak: parents are checked by the services,
// not by foreign keys, so a deleted lab category leaves products pointing at it.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id              text PRIMARY KEY,
	name            varchar(100) NOT NULL UNIQUE,
	image           text NOT NULL,
	image_public_id text NOT NULL DEFAULT '',
	created_at      timestamptz NOT NULL DEFAULT now(),
	updated_at      timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS subcategories (
	id                 text PRIMARY KEY,
	name               varchar(50) NOT NULL,
	parent_category    text NOT NULL,
	has_lab_categories boolean NOT NULL DEFAULT false,
	created_at         timestamptz NOT NULL DEFAULT now(),
	updated_at         timestamptz NOT NULL DEFAULT now(),
	UNIQUE (name, parent_category)
);
CREATE INDEX IF NOT EXISTS subcategories_parent_idx ON subcategories (parent_category);

CREATE TABLE IF NOT EXISTS lab_categories (
	id                 text PRIMARY KEY,
	name               varchar(100) NOT NULL,
	parent_subcategory text NOT NULL,
	created_at         timestamptz NOT NULL DEFAULT now(),
	updated_at         timestamptz NOT NULL DEFAULT now(),
	UNIQUE (name, parent_subcategory)
);
CREATE INDEX IF NOT EXISTS lab_categories_parent_idx ON lab_categories (parent_subcategory);

CREATE TABLE IF NOT EXISTS products (
	id                      text PRIMARY KEY,
	name                    varchar(200) NOT NULL,
	description             text NOT NULL DEFAULT '',
	pcode                   text NOT NULL UNIQUE,
	images                  text[] NOT NULL DEFAULT '{}',
	categories              text[] NOT NULL DEFAULT '{}',
	sub_category            text,
	lab_category            text,
	technical_specification jsonb NOT NULL DEFAULT '[]',
	created_at              timestamptz NOT NULL DEFAULT now(),
	updated_at              timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_categories_idx ON products USING gin (categories);
CREATE INDEX IF NOT EXISTS products_sub_category_idx ON products (sub_category);
CREATE INDEX IF NOT EXISTS products_lab_category_idx ON products (lab_category);

CREATE TABLE IF NOT EXISTS users (
	id         text PRIMARY KEY,
	name       text NOT NULL,
	email      text NOT NULL UNIQUE,
	password   bytea NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

// Migrate creates missing tables and indexes. It is safe to run on every start.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, catalog.QueryTimeoutDuration)
}

func newID() string {
	return uuid.NewString()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return catalog.ErrNotFound
	case isUniqueViolation(err):
		return catalog.Conflict("duplicate key: %v", err)
	default:
		return err
	}
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db *pgxpool.Pool, query string, args ...any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func countRows(ctx context.Context, db *pgxpool.Pool, query string, args ...any) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// nameRefs resolves ids to {id,name} from table in one query.
func nameRefs(ctx context.Context, db *pgxpool.Pool, table string, ids []string) (map[string]catalog.Ref, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.Query(ctx, `SELECT id, name FROM `+table+` WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]catalog.Ref, len(ids))
	for rows.Next() {
		var ref catalog.Ref
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}
