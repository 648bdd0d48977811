package mongo

import (
	"context"
	"errors"

	"spanco/internal/domain/users"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userStore struct {
	coll *mongo.Collection
}

func (s *userStore) Create(ctx context.Context, u *users.User) error {
	ctx, cancel := context.WithTimeout(ctx, users.QueryTimeoutDuration)
	defer cancel()

	doc := userDoc{Name: u.Name, Email: u.Email, Password: u.Password.Hash(), CreatedAt: now()}
	doc.UpdatedAt = doc.CreatedAt
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return users.ErrDuplicateEmail
		}
		return err
	}
	u.ID = insertedID(res).Hex()
	u.CreatedAt = doc.CreatedAt
	u.UpdatedAt = doc.UpdatedAt
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*users.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, users.ErrNotFound
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *userStore) findOne(ctx context.Context, filter bson.D) (*users.User, error) {
	ctx, cancel := context.WithTimeout(ctx, users.QueryTimeoutDuration)
	defer cancel()

	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}
