package memory

import (
	"context"

	"spanco/internal/domain/users"
)

type userStore struct{ db *DB }

func (s *userStore) Create(_ context.Context, u *users.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, other := range s.db.users {
		if other.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	u.ID = newID()
	u.CreatedAt = s.db.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*users.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}
