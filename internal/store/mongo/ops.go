package mongo

import (
	"context"

	"spanco/internal/domain/catalog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid
}

// updateOne applies set to a single document and decodes the result into out.
func updateOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set bson.D, out any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(out)
	return mapError(err)
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func count(ctx context.Context, coll *mongo.Collection, filter any) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type nameDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// nameRefs resolves ids to {id,name} in one round trip.
func nameRefs(ctx context.Context, coll *mongo.Collection, ids []string) (map[string]catalog.Ref, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}})
	cur, err := coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: objectIDs(ids)}}}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []nameDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	refs := make(map[string]catalog.Ref, len(docs))
	for _, d := range docs {
		refs[d.ID.Hex()] = catalog.Ref{ID: d.ID.Hex(), Name: d.Name}
	}
	return refs, nil
}
