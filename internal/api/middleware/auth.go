package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// identityKey is the context key the resolved identity is stored under.
const identityKey = "identity"

// Auth verifies the bearer token and re-resolves the carried subject against
// the store. The token is proof of identity only: role and account existence
// come from the store at call time, so a role change or deletion takes
// effect immediately rather than at token expiry.
func Auth(jwtSecret string, resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, err := verifyToken(c.Request().Header.Get("Authorization"), jwtSecret)
			if err != nil {
				return err
			}

			identity, err := resolver.Resolve(c.Request().Context(), username)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// OptionalAuth resolves an identity when a bearer token is present and
// continues anonymously when the header is absent. A present but invalid
// token is still rejected.
func OptionalAuth(jwtSecret string, resolver ports.IdentityResolver) echo.MiddlewareFunc {
	authed := Auth(jwtSecret, resolver)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return authed(next)(c)
		}
	}
}

// verifyToken validates the Authorization header and returns the token
// subject. Malformed, expired and badly signed tokens are all rejected with
// 401; the embedded claims beyond the subject are never trusted.
func verifyToken(authHeader, jwtSecret string) (string, error) {
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return claims.Subject, nil
}

// IdentityFrom extracts the resolved identity injected by Auth. ok is false
// when the request is anonymous.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}
