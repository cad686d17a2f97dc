package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the catalog depends on: the unique slug
// key (slug collision retries rely on it), the 2dsphere index for proximity
// queries, the weighted name+description text index and the unique owner
// email. Safe to call on every startup; existing indexes are left alone.
func EnsureIndexes(ctx context.Context, stores, users *mongo.Collection) error {
	_, err := stores.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().
				SetName("store_text").
				SetWeights(bson.D{{Key: "name", Value: 10}, {Key: "description", Value: 1}}),
		},
	})
	if err != nil {
		return err
	}

	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
