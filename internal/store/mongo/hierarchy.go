package mongo

import (
	"context"

	"spanco/internal/domain/catalog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type categoryStore struct {
	coll *mongo.Collection
}

func (s *categoryStore) List(ctx context.Context, sort catalog.Sort) ([]*catalog.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.D{}, findOptions(sort))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur, (*categoryDoc).toDomain)
}

func (s *categoryStore) GetByID(ctx context.Context, id string) (*catalog.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *categoryStore) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	return s.findOne(ctx, bson.D{{Key: "name", Value: name}})
}

func (s *categoryStore) findOne(ctx context.Context, filter bson.D) (*catalog.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc categoryDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

func (s *categoryStore) RefsByIDs(ctx context.Context, ids []string) (map[string]catalog.Ref, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "image", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: objectIDs(ids)}}}}, opts)
	if err != nil {
		return nil, err
	}
	docs, err := decodeAll(ctx, cur, (*categoryDoc).toDomain)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]catalog.Ref, len(docs))
	for _, c := range docs {
		refs[c.ID] = catalog.Ref{ID: c.ID, Name: c.Name, Image: c.Image}
	}
	return refs, nil
}

func (s *categoryStore) Create(ctx context.Context, c *catalog.Category) error {
	if err := catalog.Validate(c); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := categoryDoc{Name: c.Name, Image: c.Image, ImagePublicID: c.ImagePublicID, CreatedAt: now()}
	doc.UpdatedAt = doc.CreatedAt
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapError(err)
	}
	doc.ID = insertedID(res)
	*c = *doc.toDomain()
	return nil
}

func (s *categoryStore) Update(ctx context.Context, c *catalog.Category) error {
	if err := catalog.Validate(c); err != nil {
		return err
	}
	oid, err := objectID(c.ID)
	if err != nil {
		return err
	}
	set := bson.D{
		{Key: "name", Value: c.Name},
		{Key: "image", Value: c.Image},
		{Key: "imagePublicId", Value: c.ImagePublicID},
		{Key: "updatedAt", Value: now()},
	}
	var doc categoryDoc
	if err := updateOne(ctx, s.coll, oid, set, &doc); err != nil {
		return err
	}
	*c = *doc.toDomain()
	return nil
}

func (s *categoryStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}

type subcategoryStore struct {
	coll *mongo.Collection
}

func (s *subcategoryStore) List(ctx context.Context, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	return s.find(ctx, bson.D{}, sort)
}

func (s *subcategoryStore) ListByCategory(ctx context.Context, categoryID string, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	oid, err := objectID(categoryID)
	if err != nil {
		return []*catalog.Subcategory{}, nil
	}
	return s.find(ctx, bson.D{{Key: "parentCategories", Value: oid}}, sort)
}

func (s *subcategoryStore) find(ctx context.Context, filter bson.D, sort catalog.Sort) ([]*catalog.Subcategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, filter, findOptions(sort))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur, (*subcategoryDoc).toDomain)
}

func (s *subcategoryStore) GetByID(ctx context.Context, id string) (*catalog.Subcategory, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *subcategoryStore) FindByName(ctx context.Context, name, categoryID string) (*catalog.Subcategory, error) {
	oid, err := objectID(categoryID)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "name", Value: name}, {Key: "parentCategories", Value: oid}})
}

func (s *subcategoryStore) findOne(ctx context.Context, filter bson.D) (*catalog.Subcategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc subcategoryDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

func (s *subcategoryStore) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	oid, err := objectID(categoryID)
	if err != nil {
		return 0, nil
	}
	return count(ctx, s.coll, bson.D{{Key: "parentCategories", Value: oid}})
}

func (s *subcategoryStore) RefsByIDs(ctx context.Context, ids []string) (map[string]catalog.Ref, error) {
	return nameRefs(ctx, s.coll, ids)
}

func (s *subcategoryStore) Create(ctx context.Context, sub *catalog.Subcategory) error {
	if err := catalog.Validate(sub); err != nil {
		return err
	}
	parent, err := refID("parentCategories", sub.ParentCategory.ID)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := subcategoryDoc{Name: sub.Name, ParentCategories: parent, HasLabCategories: sub.HasLabCategories, CreatedAt: now()}
	doc.UpdatedAt = doc.CreatedAt
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapError(err)
	}
	doc.ID = insertedID(res)
	*sub = *doc.toDomain()
	return nil
}

func (s *subcategoryStore) Update(ctx context.Context, sub *catalog.Subcategory) error {
	if err := catalog.Validate(sub); err != nil {
		return err
	}
	oid, err := objectID(sub.ID)
	if err != nil {
		return err
	}
	parent, err := refID("parentCategories", sub.ParentCategory.ID)
	if err != nil {
		return err
	}
	set := bson.D{
		{Key: "name", Value: sub.Name},
		{Key: "parentCategories", Value: parent},
		{Key: "hasLabCategories", Value: sub.HasLabCategories},
		{Key: "updatedAt", Value: now()},
	}
	var doc subcategoryDoc
	if err := updateOne(ctx, s.coll, oid, set, &doc); err != nil {
		return err
	}
	*sub = *doc.toDomain()
	return nil
}

func (s *subcategoryStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}

type labCategoryStore struct {
	coll *mongo.Collection
}

func (s *labCategoryStore) List(ctx context.Context, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	return s.find(ctx, bson.D{}, sort)
}

func (s *labCategoryStore) ListBySubcategory(ctx context.Context, subcategoryID string, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	oid, err := objectID(subcategoryID)
	if err != nil {
		return []*catalog.LabCategory{}, nil
	}
	return s.find(ctx, bson.D{{Key: "parentSubcategory", Value: oid}}, sort)
}

func (s *labCategoryStore) find(ctx context.Context, filter bson.D, sort catalog.Sort) ([]*catalog.LabCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, filter, findOptions(sort))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur, (*labCategoryDoc).toDomain)
}

func (s *labCategoryStore) GetByID(ctx context.Context, id string) (*catalog.LabCategory, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *labCategoryStore) FindByName(ctx context.Context, name, subcategoryID string) (*catalog.LabCategory, error) {
	oid, err := objectID(subcategoryID)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "name", Value: name}, {Key: "parentSubcategory", Value: oid}})
}

func (s *labCategoryStore) findOne(ctx context.Context, filter bson.D) (*catalog.LabCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc labCategoryDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

func (s *labCategoryStore) CountBySubcategory(ctx context.Context, subcategoryID string) (int, error) {
	oid, err := objectID(subcategoryID)
	if err != nil {
		return 0, nil
	}
	return count(ctx, s.coll, bson.D{{Key: "parentSubcategory", Value: oid}})
}

func (s *labCategoryStore) RefsByIDs(ctx context.Context, ids []string) (map[string]catalog.Ref, error) {
	return nameRefs(ctx, s.coll, ids)
}

func (s *labCategoryStore) Create(ctx context.Context, l *catalog.LabCategory) error {
	if err := catalog.Validate(l); err != nil {
		return err
	}
	parent, err := refID("parentSubcategory", l.ParentSubcategory.ID)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := labCategoryDoc{Name: l.Name, ParentSubcategory: parent, CreatedAt: now()}
	doc.UpdatedAt = doc.CreatedAt
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapError(err)
	}
	doc.ID = insertedID(res)
	*l = *doc.toDomain()
	return nil
}

func (s *labCategoryStore) Update(ctx context.Context, l *catalog.LabCategory) error {
	if err := catalog.Validate(l); err != nil {
		return err
	}
	oid, err := objectID(l.ID)
	if err != nil {
		return err
	}
	parent, err := refID("parentSubcategory", l.ParentSubcategory.ID)
	if err != nil {
		return err
	}
	set := bson.D{
		{Key: "name", Value: l.Name},
		{Key: "parentSubcategory", Value: parent},
		{Key: "updatedAt", Value: now()},
	}
	var doc labCategoryDoc
	if err := updateOne(ctx, s.coll, oid, set, &doc); err != nil {
		return err
	}
	*l = *doc.toDomain()
	return nil
}

func (s *labCategoryStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}
