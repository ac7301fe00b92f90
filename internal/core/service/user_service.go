package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// UserService implements account management.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create registers a new account. Anyone may register a "user" account;
// creating an "admin" account requires the caller to already be an
// authenticated admin.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (string, error) {
	if input.Username == "" || input.Password == "" {
		return "", domain.ErrInvalidInput
	}
	if input.Role == domain.RoleAdmin {
		if input.Caller == nil || input.Caller.Role != domain.RoleAdmin {
			return "", domain.ErrForbidden
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")
	return created.ID, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Update applies the provided fields. A new password is hashed here; a new
// role must pass the closed enumeration.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) error {
	update := ports.UserUpdate{
		Username: input.Username,
		FullName: input.FullName,
	}

	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return err
		}
		update.Role = &role
	}

	return s.repo.Update(ctx, id, update)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
