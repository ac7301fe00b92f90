package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// AuthService implements credential verification and token minting.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies a username/password pair. Unknown username and wrong
// password collapse into the same error so usernames cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Identity, error) {
	if username == "" || password == "" {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.Identity{}, domain.ErrInvalidCredentials
		}
		return "", domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.Username)
	if err != nil {
		return "", domain.Identity{}, err
	}

	return token, user.Identity(), nil
}

// Resolve re-reads the token subject from the store and returns the current
// identity. Deleted accounts resolve to ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, username string) (domain.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}

// generateToken signs a token carrying only the subject and expiry. Role is
// deliberately not embedded: authorization always re-reads the store.
func (s *AuthService) generateToken(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
