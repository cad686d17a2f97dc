package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AuthConfig defines the JWT signing material for the auth collaborator and
// the server's bearer middleware.
type AuthConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// MinioConfig defines the connection to the photo content area.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr            string
	MongoURI        string
	MongoDatabase   string
	StoreCollection string
	UserCollection  string
	Timeout         time.Duration
	AllowedOrigins  []string
	Auth            AuthConfig
	Minio           MinioConfig
	Logger          zerolog.Logger
}

// Load reads environment variables and returns a fully populated Config.
// It fails fast when the JWT secret is missing: without it every
// authenticated route would be dead on arrival.
func Load() Config {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "townlist-api").Logger()

	timeout := 10 * time.Second
	if v := strings.TrimSpace(os.Getenv("MONGO_CONNECT_TIMEOUT")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		logger.Fatal().Msg("AUTH_JWT_SECRET must be configured")
	}

	tokenTTL := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("AUTH_JWT_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			tokenTTL = parsed
		}
	}

	return Config{
		Addr:            envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:        envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:   envOrDefault("MONGO_DB", "townlist"),
		StoreCollection: envOrDefault("STORE_COLLECTION", "stores"),
		UserCollection:  envOrDefault("USER_COLLECTION", "users"),
		Timeout:         timeout,
		AllowedOrigins:  parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		Auth: AuthConfig{
			Secret:   []byte(secret),
			Issuer:   envOrDefault("AUTH_JWT_ISSUER", "townlist-api"),
			Audience: strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
			TokenTTL: tokenTTL,
		},
		Minio: MinioConfig{
			Endpoint:  envOrDefault("MINIO_ENDPOINT", "minio:9000"),
			AccessKey: envOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: envOrDefault("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    envOrDefault("MINIO_BUCKET", "store-photos"),
			UseSSL:    strings.EqualFold(strings.TrimSpace(os.Getenv("MINIO_USE_SSL")), "true"),
		},
		Logger: logger,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
