package users

import "context"

// Store persists accounts. Create returns ErrDuplicateEmail for a taken email;
// lookups return ErrNotFound.
type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
