// Package server is the composition root: it wires the Mongo repositories,
// the photo pipeline and the auth collaborator into the catalog service and
// mounts the HTTP handlers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/townlist/townlist-services/api/internal/auth"
	"github.com/townlist/townlist-services/api/internal/catalog/application"
	"github.com/townlist/townlist-services/api/internal/config"
	"github.com/townlist/townlist-services/api/internal/infrastructure/media"
	mongodoc "github.com/townlist/townlist-services/api/internal/infrastructure/mongo"
	"github.com/townlist/townlist-services/api/internal/interfaces/http/common"
	ownerhttp "github.com/townlist/townlist-services/api/internal/interfaces/http/owner"
	publichttp "github.com/townlist/townlist-services/api/internal/interfaces/http/public"
)

// Server manages the HTTP lifecycle and dependency injection into handlers.
type Server struct {
	logger         zerolog.Logger
	client         *mongo.Client
	stores         *mongo.Collection
	users          *mongo.Collection
	catalog        application.CatalogService
	authService    *auth.Service
	authConfig     config.AuthConfig
	addr           string
	allowedOrigins []string
}

// New connects the content area and assembles the application services.
func New(ctx context.Context, cfg config.Config, client *mongo.Client) (*Server, error) {
	database := client.Database(cfg.MongoDatabase)

	contentArea, err := media.NewMinioContentArea(ctx, cfg.Minio)
	if err != nil {
		return nil, fmt.Errorf("content area: %w", err)
	}

	storeRepo := mongodoc.NewStoreRepository(database, cfg.StoreCollection)
	userRepo := mongodoc.NewUserRepository(database, cfg.UserCollection)
	pipeline := media.NewPipeline(contentArea)

	return &Server{
		logger:         cfg.Logger,
		client:         client,
		stores:         database.Collection(cfg.StoreCollection),
		users:          database.Collection(cfg.UserCollection),
		catalog:        application.NewCatalogService(storeRepo, userRepo, pipeline),
		authService:    auth.NewService(userRepo, cfg.Auth),
		authConfig:     cfg.Auth,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}, nil
}

// Run bootstraps indexes, assembles the router and serves until shutdown.
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := mongodoc.EnsureIndexes(ctx, s.stores, s.users)
	cancel()
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:  s.logger,
		Catalog: s.catalog,
		Auth:    s.authService,
	})
	publicHandler.Register(router, s.authMiddleware)

	ownerHandler := ownerhttp.NewHandler(ownerhttp.Config{
		Logger:  s.logger,
		Catalog: s.catalog,
	})
	ownerHandler.Register(router, s.authMiddleware)

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("http server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	s.waitForShutdown(httpServer, errChan)
	return nil
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Msg("http request")
	})
}

// withCORS adds CORS headers for the configured origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports MongoDB reachability for monitoring.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			common.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		common.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware validates the bearer token and stores the authenticated
// user into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			common.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			common.WriteError(s.logger, w, http.StatusUnauthorized, "a Bearer token is required")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			common.WriteError(s.logger, w, http.StatusUnauthorized, "access token is empty")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			common.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := common.AuthenticatedUser{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
		}

		ctx := common.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken verifies the signature and the issuer/audience/subject
// constraints of a bearer token.
func (s *Server) parseAuthToken(tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.authConfig.Secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("access token is invalid")
	}

	if s.authConfig.Issuer != "" && claims.Issuer != s.authConfig.Issuer {
		return nil, fmt.Errorf("access token is invalid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token is invalid")
	}
	if s.authConfig.Audience != "" && !contains(claims.Audience, s.authConfig.Audience) {
		return nil, fmt.Errorf("access token is invalid")
	}

	return claims, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// shutdown disconnects the MongoDB client with a timeout.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("mongodb disconnect failed")
	}
}

// waitForShutdown watches ListenAndServe and OS signals for a graceful stop.
func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal().Err(err).Msg("http server exited abnormally")
		}
	case sig := <-sigChan:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("http server shutdown failed")
		}
	}

	s.shutdown(context.Background())
}
