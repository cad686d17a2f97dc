package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/townlist/townlist-services/api/internal/config"
	"github.com/townlist/townlist-services/api/internal/server"
)

func main() {
	// Optional in containers; the environment wins over the .env file.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.Logger.Fatal().Err(err).Msg("mongodb connection failed")
	}

	app, err := server.New(ctx, cfg, client)
	if err != nil {
		cfg.Logger.Fatal().Err(err).Msg("server assembly failed")
	}
	if err := app.Run(); err != nil {
		cfg.Logger.Fatal().Err(err).Msg("server start failed")
	}
}
