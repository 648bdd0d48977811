package mongo

import (
	"context"
	"regexp"

	"spanco/internal/domain/catalog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var searchFields = []string{
	"name",
	"description",
	"PCode",
	"technicalSpecification.label",
	"technicalSpecification.value",
}

// productFilter translates the listing predicate. ok is false when a facet
// carries an id that cannot match any document.
func productFilter(f catalog.ProductFilter) (filter bson.D, ok bool) {
	filter = bson.D{}
	facets := []struct{ field, id string }{
		{"categories", f.CategoryID},
		{"subCategory", f.SubcategoryID},
		{"labCategory", f.LabCategoryID},
	}
	for _, facet := range facets {
		if facet.id == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(facet.id)
		if err != nil {
			return nil, false
		}
		filter = append(filter, bson.E{Key: facet.field, Value: oid})
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		or := make(bson.A, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.D{{Key: field, Value: re}})
		}
		filter = append(filter, bson.E{Key: "$or", Value: or})
	}
	return filter, true
}

type productStore struct {
	coll *mongo.Collection
}

func (s *productStore) List(ctx context.Context, q catalog.ProductQuery) ([]*catalog.Product, error) {
	filter, ok := productFilter(q.Filter)
	if !ok {
		return []*catalog.Product{}, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := findOptions(q.Sort).SetSkip(int64(q.Skip))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur, (*productDoc).toDomain)
}

func (s *productStore) Count(ctx context.Context, f catalog.ProductFilter) (int, error) {
	filter, ok := productFilter(f)
	if !ok {
		return 0, nil
	}
	return count(ctx, s.coll, filter)
}

func (s *productStore) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *productStore) GetByPCode(ctx context.Context, pcode string) (*catalog.Product, error) {
	return s.findOne(ctx, bson.D{{Key: "PCode", Value: pcode}})
}

func (s *productStore) findOne(ctx context.Context, filter bson.D) (*catalog.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc productDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

func (s *productStore) Create(ctx context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	doc, err := newProductDoc(p)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return mapError(err)
	}
	doc.ID = insertedID(res)
	*p = *doc.toDomain()
	return nil
}

// Update overwrites every product field in a single document write.
func (s *productStore) Update(ctx context.Context, p *catalog.Product) error {
	if err := catalog.Validate(p); err != nil {
		return err
	}
	oid, err := objectID(p.ID)
	if err != nil {
		return err
	}
	doc, err := newProductDoc(p)
	if err != nil {
		return err
	}
	set := bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "description", Value: doc.Description},
		{Key: "PCode", Value: doc.PCode},
		{Key: "image", Value: doc.Image},
		{Key: "categories", Value: doc.Categories},
		{Key: "subCategory", Value: doc.SubCategory},
		{Key: "labCategory", Value: doc.LabCategory},
		{Key: "technicalSpecification", Value: doc.TechnicalSpecification},
		{Key: "updatedAt", Value: now()},
	}
	var out productDoc
	if err := updateOne(ctx, s.coll, oid, set, &out); err != nil {
		return err
	}
	*p = *out.toDomain()
	return nil
}

func (s *productStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}
