package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/townlist/townlist-services/api/internal/catalog/application"
	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

// StoreRepository implements application.StoreRepository using MongoDB.
// Consistency relies on the unique slug index, the 2dsphere index on
// location and the weighted text index created by EnsureIndexes.
type StoreRepository struct {
	collection *mongo.Collection
}

// NewStoreRepository creates a new Mongo-backed store repository.
func NewStoreRepository(db *mongo.Database, collectionName string) *StoreRepository {
	return &StoreRepository{collection: db.Collection(collectionName)}
}

// Insert persists a new store and backfills the driver-assigned ID.
// A duplicate key on the slug index surfaces as domain.ErrSlugTaken so the
// catalog service can retry with the next suffix.
func (r *StoreRepository) Insert(ctx context.Context, store *domain.Store) error {
	doc, err := newStoreDocument(store)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", domain.ErrSlugTaken, store.Slug)
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		store.ID = id.Hex()
	}
	return nil
}

// Update applies the mutable fields of the patch to one store document and
// returns the updated record. Slug and author are never part of the $set.
func (r *StoreRepository) Update(ctx context.Context, id string, patch application.StorePatch) (*domain.Store, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: store id %q", domain.ErrNotFound, id)
	}

	set := bson.M{
		"name":        patch.Name,
		"description": patch.Description,
		"location":    newGeoPointDocument(patch.Location),
		"tags":        patch.Tags,
		"updatedAt":   time.Now().UTC(),
	}
	if patch.Photo != nil {
		set["photo"] = *patch.Photo
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc storeDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: store id %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	store := mapStoreDocument(doc)
	return &store, nil
}

// FindByID returns a single store by its identifier.
func (r *StoreRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: store id %q", domain.ErrNotFound, id)
	}
	var doc storeDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: store id %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	store := mapStoreDocument(doc)
	return &store, nil
}

// FindBySlug returns a single store by its unique slug.
func (r *StoreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	var doc storeDocument
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: store %q", domain.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	store := mapStoreDocument(doc)
	return &store, nil
}

// FindByTag returns newest-first stores carrying the tag; an empty tag
// matches every store, tagged or not.
func (r *StoreRepository) FindByTag(ctx context.Context, tag string) ([]domain.Store, error) {
	filter := bson.M{}
	if tag != "" {
		filter["tags"] = tag
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeStores(ctx, cursor)
}

// SearchText matches the weighted name+description text index, projecting the
// textScore relevance metric and sorting on it descending.
func (r *StoreRepository) SearchText(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	filter := bson.M{"$text": bson.M{"$search": query}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeStores(ctx, cursor)
}

// FindNear runs a $near query against the 2dsphere index; results come back
// ordered by ascending distance. Only the listing projection is returned.
func (r *StoreRepository) FindNear(ctx context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error) {
	filter := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{lng, lat},
				},
				"$maxDistance": maxDistanceMeters,
			},
		},
	}
	opts := options.Find().
		SetProjection(bson.M{"slug": 1, "name": 1, "description": 1, "location": 1, "photo": 1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeStores(ctx, cursor)
}

// TagCounts unwinds the tags array and counts stores per distinct tag across
// the whole catalog, most used first.
func (r *StoreRepository) TagCounts(ctx context.Context) ([]domain.TagCount, error) {
	pipeline := []bson.M{
		{"$unwind": "$tags"},
		{"$group": bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make([]domain.TagCount, 0)
	for cursor.Next(ctx) {
		var doc tagCountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		counts = append(counts, domain.TagCount{Tag: doc.Tag, Count: doc.Count})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func decodeStores(ctx context.Context, cursor *mongo.Cursor) ([]domain.Store, error) {
	defer cursor.Close(ctx)

	stores := make([]domain.Store, 0)
	for cursor.Next(ctx) {
		var doc storeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		stores = append(stores, mapStoreDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}
