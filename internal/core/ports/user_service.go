package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// CreateUserInput carries self-registration data. Role has already passed the
// validation boundary (closed enumeration), but admin creation is still
// gated by the service against the caller's identity.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Role     domain.Role
	// Caller is the authenticated identity behind the request, nil when the
	// request is anonymous.
	Caller *domain.Identity
}

// UpdateUserInput carries the optional fields of an admin user update.
type UpdateUserInput struct {
	Username *string
	Password *string
	FullName *string
	Role     *string
}

// UserService defines account management use cases.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (string, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) error
	Delete(ctx context.Context, id string) error
}
