package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

const testSecret = "test-secret"

type stubResolver struct {
	identities map[string]domain.Identity
	calls      int
}

func (r *stubResolver) Resolve(_ context.Context, username string) (domain.Identity, error) {
	r.calls++
	identity, ok := r.identities[username]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return identity, nil
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration, method jwt.SigningMethod) string {
	t.Helper()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	return token
}

// invokeAuth runs a request through the middleware and returns the HTTP
// status plus the identity the handler observed.
func invokeAuth(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (int, *domain.Identity) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.Identity
	handler := mw(func(c echo.Context) error {
		if identity, ok := IdentityFrom(c); ok {
			seen = &identity
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		if httpErr, ok := err.(*echo.HTTPError); ok {
			return httpErr.Code, seen
		}
		t.Fatalf("unexpected error type: %v", err)
	}
	return rec.Code, seen
}

func TestAuth_ValidToken(t *testing.T) {
	resolver := &stubResolver{identities: map[string]domain.Identity{
		"alice1": {ID: "alice1-id", Username: "alice1", Role: domain.RoleUser},
	}}
	mw := Auth(testSecret, resolver)

	token := signToken(t, testSecret, "alice1", time.Hour, jwt.SigningMethodHS256)
	code, identity := invokeAuth(t, mw, "Bearer "+token)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if identity == nil || identity.Username != "alice1" || identity.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if resolver.calls != 1 {
		t.Fatalf("expected one resolver call, got %d", resolver.calls)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	mw := Auth(testSecret, &stubResolver{})

	code, _ := invokeAuth(t, mw, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	mw := Auth(testSecret, &stubResolver{})

	for _, header := range []string{"Bearer", "Basic abc", "garbage"} {
		code, _ := invokeAuth(t, mw, header)
		if code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, code)
		}
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	resolver := &stubResolver{identities: map[string]domain.Identity{
		"alice1": {Username: "alice1", Role: domain.RoleUser},
	}}
	mw := Auth(testSecret, resolver)

	token := signToken(t, testSecret, "alice1", -time.Minute, jwt.SigningMethodHS256)
	code, _ := invokeAuth(t, mw, "Bearer "+token)

	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if resolver.calls != 0 {
		t.Fatal("expired token must not reach the resolver")
	}
}

func TestAuth_WrongSignature(t *testing.T) {
	mw := Auth(testSecret, &stubResolver{})

	token := signToken(t, "other-secret", "alice1", time.Hour, jwt.SigningMethodHS256)
	code, _ := invokeAuth(t, mw, "Bearer "+token)

	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuth_DeletedUser(t *testing.T) {
	// Valid signature, but the subject no longer exists in the store.
	mw := Auth(testSecret, &stubResolver{identities: map[string]domain.Identity{}})

	token := signToken(t, testSecret, "ghost", time.Hour, jwt.SigningMethodHS256)
	code, _ := invokeAuth(t, mw, "Bearer "+token)

	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted subject, got %d", code)
	}
}

// The identity comes from the store at request time; whatever the token was
// minted with is irrelevant beyond the subject.
func TestAuth_StoreRoleWins(t *testing.T) {
	resolver := &stubResolver{identities: map[string]domain.Identity{
		"alice1": {Username: "alice1", Role: domain.RoleAdmin},
	}}
	mw := Auth(testSecret, resolver)

	token := signToken(t, testSecret, "alice1", time.Hour, jwt.SigningMethodHS256)
	code, identity := invokeAuth(t, mw, "Bearer "+token)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if identity.Role != domain.RoleAdmin {
		t.Fatalf("expected store role admin, got %s", identity.Role)
	}
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	resolver := &stubResolver{}
	mw := OptionalAuth(testSecret, resolver)

	code, identity := invokeAuth(t, mw, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if identity != nil {
		t.Fatal("anonymous request must carry no identity")
	}
	if resolver.calls != 0 {
		t.Fatal("resolver must not be called without a token")
	}
}

func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	mw := OptionalAuth(testSecret, &stubResolver{})

	code, _ := invokeAuth(t, mw, "Bearer not-a-token")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
