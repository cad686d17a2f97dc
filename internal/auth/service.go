// Package auth is the authentication collaborator. The catalog core never
// sees credentials; it only receives the user ID this package vouches for.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/townlist/townlist-services/api/internal/catalog/application"
	"github.com/townlist/townlist-services/api/internal/catalog/domain"
	"github.com/townlist/townlist-services/api/internal/config"
)

const minPasswordLength = 8

// Claims is the JWT payload issued for a verified owner.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Service registers owners, verifies credentials and issues tokens.
type Service struct {
	users    application.UserRepository
	secret   []byte
	issuer   string
	audience string
	tokenTTL time.Duration
}

// NewService constructs the auth collaborator.
func NewService(users application.UserRepository, cfg config.AuthConfig) *Service {
	return &Service{
		users:    users,
		secret:   cfg.Secret,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		tokenTTL: cfg.TokenTTL,
	}
}

// Register creates a new owner account with a bcrypt password hash.
// A duplicate email surfaces as a validation error.
func (s *Service) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrValidation)
		}
		return nil, err
	}
	return user, nil
}

// Verify checks credentials and returns the matching user. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
	}
	return user, nil
}

// IssueToken signs a bearer token for the verified user.
func (s *Service) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Name:  user.Name,
		Email: user.Email,
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
