// Package mongo stores the catalog in MongoDB, one collection per entity kind.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	categoriesCollection    = "categories"
	subcategoriesCollection = "subcategories"
	labCategoriesCollection = "labcategories"
	productsCollection      = "products"
	usersCollection         = "users"
)

type DB struct {
	db *mongo.Database
}

func New(db *mongo.Database) *DB {
	return &DB{db: db}
}

func (d *DB) Catalog() catalog.Store {
	return catalog.Store{
		Categories:    &categoryStore{coll: d.db.Collection(categoriesCollection)},
		Subcategories: &subcategoryStore{coll: d.db.Collection(subcategoriesCollection)},
		LabCategories: &labCategoryStore{coll: d.db.Collection(labCategoriesCollection)},
		Products:      &productStore{coll: d.db.Collection(productsCollection)},
	}
}

func (d *DB) Users() users.Store {
	return &userStore{coll: d.db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique keys the services rely on as the final
// word on duplicates, plus the product facet indexes.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		categoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		subcategoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "parentCategories", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "parentCategories", Value: 1}}},
		},
		labCategoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "parentSubcategory", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "parentSubcategory", Value: 1}}},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "PCode", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "categories", Value: 1}}},
			{Keys: bson.D{{Key: "subCategory", Value: 1}}},
			{Keys: bson.D{{Key: "labCategory", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range indexes {
		if _, err := d.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, catalog.QueryTimeoutDuration)
}

// objectID parses a hex id. Ids that cannot exist resolve to ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, catalog.ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// refID parses an id carried by a reference field on write.
func refID(field, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, catalog.Invalid("%s: invalid id %q", field, id)
	}
	return oid, nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return catalog.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return catalog.Conflict("duplicate key: %v", err)
	default:
		return err
	}
}

func findOptions(sort catalog.Sort) *options.FindOptions {
	return options.Find().SetSort(sortDoc(sort))
}

// sortDoc orders by the requested field and then by _id so pages are stable.
func sortDoc(sort catalog.Sort) bson.D {
	dir := 1
	if sort.Desc {
		dir = -1
	}
	field := sort.Field
	if field == "" {
		field = "name"
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// decodeAll drains a cursor into docs, then converts each.
func decodeAll[D any, T any](ctx context.Context, cur *mongo.Cursor, conv func(*D) *T) ([]*T, error) {
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for i := range docs {
		out = append(out, conv(&docs[i]))
	}
	return out, nil
}
