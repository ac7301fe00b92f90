package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// RequireRole gates a route on the resolved identity's role. An absent
// identity denies with 401, a present identity with the wrong role with 403.
// The check is a pure predicate over the identity; it has no side effects
// and composes behind Auth on any route.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}
			if identity.Role != required {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
