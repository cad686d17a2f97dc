// Command seed wipes the stores and users collections and loads a small
// sample catalog for local development.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/townlist/townlist-services/api/internal/config"
	mongodoc "github.com/townlist/townlist-services/api/internal/infrastructure/mongo"
)

const samplePassword = "townlist-demo"

type sampleStore struct {
	name        string
	slug        string
	description string
	address     string
	lng, lat    float64
	tags        []string
}

var sampleStores = []sampleStore{
	{
		name:        "Blue Moon Cafe",
		slug:        "blue-moon-cafe",
		description: "Flat whites and cinnamon buns a minute from the river.",
		address:     "12 Embankment Walk, London",
		lng:         -0.1195, lat: 51.5033,
		tags: []string{"cafe", "wifi"},
	},
	{
		name:        "Harbour Lights Bakery",
		slug:        "harbour-lights-bakery",
		description: "Sourdough loaves baked overnight, gone by noon.",
		address:     "3 Quay Street, London",
		lng:         -0.0754, lat: 51.5055,
		tags: []string{"bakery", "family-friendly"},
	},
	{
		name:        "The Copper Kettle",
		slug:        "the-copper-kettle",
		description: "Loose-leaf teas, board games and a resident cat.",
		address:     "89 Lamp Lane, London",
		lng:         -0.1419, lat: 51.5014,
		tags: []string{"cafe", "family-friendly"},
	},
	{
		name:        "Night Owl Records",
		slug:        "night-owl-records",
		description: "Second-hand vinyl and late-night listening sessions.",
		address:     "27 Arcade Row, London",
		lng:         -0.1361, lat: 51.5128,
		tags: []string{"music", "late-night"},
	},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := cfg.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	database := client.Database(cfg.MongoDatabase)
	stores := database.Collection(cfg.StoreCollection)
	users := database.Collection(cfg.UserCollection)

	if err := stores.Drop(ctx); err != nil {
		logger.Fatal().Err(err).Msg("dropping stores failed")
	}
	if err := users.Drop(ctx); err != nil {
		logger.Fatal().Err(err).Msg("dropping users failed")
	}
	if err := mongodoc.EnsureIndexes(ctx, stores, users); err != nil {
		logger.Fatal().Err(err).Msg("index bootstrap failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(samplePassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("password hash failed")
	}

	owner := primitive.NewObjectID()
	now := time.Now().UTC()
	_, err = users.InsertOne(ctx, bson.M{
		"_id":          owner,
		"email":        "demo@townlist.dev",
		"name":         "Demo Owner",
		"passwordHash": hash,
		"createdAt":    now,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding user failed")
	}

	docs := make([]any, 0, len(sampleStores))
	for _, s := range sampleStores {
		docs = append(docs, bson.M{
			"name":        s.name,
			"slug":        s.slug,
			"description": s.description,
			"tags":        s.tags,
			"location": bson.M{
				"type":        "Point",
				"coordinates": bson.A{s.lng, s.lat},
				"address":     s.address,
			},
			"photo":     "store.png",
			"author":    owner,
			"createdAt": now,
			"updatedAt": now,
		})
	}
	if _, err := stores.InsertMany(ctx, docs); err != nil {
		logger.Fatal().Err(err).Msg("seeding stores failed")
	}

	logger.Info().
		Int("stores", len(sampleStores)).
		Str("owner", "demo@townlist.dev").
		Msg("sample catalog loaded")
}
