package middleware

import (
	"net/http"
	"strings"

	"credit-scoring-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	emailContextKey = "auth_email"
	adminContextKey = "auth_is_admin"
)

// AuthMiddleware resolves the Bearer token into a user identity and places
// it in the echo context for downstream handlers.
type AuthMiddleware struct {
	users  user.Repository
	secret []byte
}

func NewAuthMiddleware(users user.Repository, secret string) *AuthMiddleware {
	return &AuthMiddleware{users: users, secret: []byte(secret)}
}

func (a *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c)
		}

		claims := &jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !parsed.Valid || claims.Subject == "" {
			return unauthorized(c)
		}

		u, err := a.users.GetByEmail(c.Request().Context(), claims.Subject)
		if err != nil || !u.IsActive {
			return unauthorized(c)
		}

		SetIdentity(c, u.Email, u.IsAdmin)
		return next(c)
	}
}

// SetIdentity stores the caller identity in the echo context. Exposed so
// handler tests can simulate an authenticated request.
func SetIdentity(c echo.Context, email string, admin bool) {
	c.Set(emailContextKey, email)
	c.Set(adminContextKey, admin)
}

// RequireAdmin rejects authenticated non-admin callers. Must run after
// Authenticate.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

// CurrentEmail returns the authenticated email, or "" outside Authenticate.
func CurrentEmail(c echo.Context) string {
	if v, ok := c.Get(emailContextKey).(string); ok {
		return v
	}
	return ""
}

func IsAdmin(c echo.Context) bool {
	v, _ := c.Get(adminContextKey).(bool)
	return v
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
}
