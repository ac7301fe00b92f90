package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns all users. Password hashes are projected out at the
	// storage layer, not merely hidden at serialization time.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies the non-nil fields and reports domain.ErrUserNotFound
	// when no document matches.
	Update(ctx context.Context, id string, update UserUpdate) error
	Delete(ctx context.Context, id string) error
}

// UserUpdate carries the optional fields of a partial user update.
type UserUpdate struct {
	Username     *string
	PasswordHash *string
	FullName     *string
	Role         *domain.Role
}
