package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-scoring-backend/internal/domain/user"
	"credit-scoring-backend/internal/testutil/usermock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, email string, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authContext(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/loans/my-loans", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func activeUserRepo(email string, admin bool) *usermock.Repo {
	return &usermock.Repo{
		GetByEmailFn: func(ctx context.Context, e string) (*user.User, error) {
			if e != email {
				return nil, user.ErrNotFound
			}
			return &user.User{Email: e, IsActive: true, IsAdmin: admin}, nil
		},
	}
}

func TestAuthenticate_SetsIdentity(t *testing.T) {
	mw := NewAuthMiddleware(activeUserRepo("alice@example.com", false), testSecret)
	c, _ := authContext(signToken(t, "alice@example.com", testSecret))

	called := false
	err := mw.Authenticate(func(c echo.Context) error {
		called = true
		if CurrentEmail(c) != "alice@example.com" {
			t.Fatalf("CurrentEmail = %q", CurrentEmail(c))
		}
		if IsAdmin(c) {
			t.Fatal("IsAdmin must be false")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("middleware err: %v", err)
	}
	if !called {
		t.Fatal("next not invoked")
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	mw := NewAuthMiddleware(activeUserRepo("alice@example.com", false), testSecret)
	c, rec := authContext("")

	err := mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})(c)
	if err != nil {
		t.Fatalf("middleware err: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	mw := NewAuthMiddleware(activeUserRepo("alice@example.com", false), testSecret)
	c, rec := authContext(signToken(t, "alice@example.com", "other-secret"))

	_ = mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, _ := tok.SignedString([]byte(testSecret))

	mw := NewAuthMiddleware(activeUserRepo("alice@example.com", false), testSecret)
	c, rec := authContext(signed)

	_ = mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	repo := &usermock.Repo{
		GetByEmailFn: func(ctx context.Context, e string) (*user.User, error) {
			return &user.User{Email: e, IsActive: false}, nil
		},
	}
	mw := NewAuthMiddleware(repo, testSecret)
	c, rec := authContext(signToken(t, "alice@example.com", testSecret))

	_ = mw.Authenticate(func(c echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	mw := NewAuthMiddleware(activeUserRepo("root@example.com", true), testSecret)
	c, _ := authContext(signToken(t, "root@example.com", testSecret))

	called := false
	err := mw.Authenticate(RequireAdmin(func(c echo.Context) error {
		called = true
		return nil
	}))(c)
	if err != nil || !called {
		t.Fatalf("admin chain failed: err=%v called=%v", err, called)
	}

	mw = NewAuthMiddleware(activeUserRepo("alice@example.com", false), testSecret)
	c, rec := authContext(signToken(t, "alice@example.com", testSecret))
	_ = mw.Authenticate(RequireAdmin(func(c echo.Context) error {
		t.Fatal("non-admin must not pass")
		return nil
	}))(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
