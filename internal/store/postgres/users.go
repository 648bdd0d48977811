package postgres

import (
	"context"
	"errors"

	"spanco/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userStore struct {
	db *pgxpool.Pool
}

func (s *userStore) Create(ctx context.Context, user *users.User) error {
	query := `
	  INSERT INTO users (id, name, email, password) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, users.QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(
		ctx, query, newID(), user.Name, user.Email, user.Password.Hash(),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*users.User, error) {
	return s.get(ctx, `SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.get(ctx, `SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (s *userStore) get(ctx context.Context, query, arg string) (*users.User, error) {
	ctx, cancel := context.WithTimeout(ctx, users.QueryTimeoutDuration)
	defer cancel()

	user := &users.User{}
	var hash []byte
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&hash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	user.Password.SetHash(hash)
	return user, nil
}
