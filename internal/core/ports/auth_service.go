package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// AuthService verifies credentials and mints bearer tokens.
type AuthService interface {
	// Login verifies a username/password pair and returns a signed token plus
	// the sanitized identity. Unknown username and wrong password are the
	// same domain.ErrInvalidCredentials to the caller.
	Login(ctx context.Context, username, password string) (string, domain.Identity, error)
}

// IdentityResolver resolves a token subject against current store state.
// The token is treated strictly as proof of identity: role and account
// existence are always re-read, so role changes and deletions take effect
// immediately rather than at token expiry.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (domain.Identity, error)
}
