package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"docqa/entities"
	"docqa/pkg/auth/service"
)

const (
	TokenCookie = "access_token"
	identityKey = "identity"
)

// Anonymous is the caller when authentication is disabled.
var Anonymous = service.Identity{Username: "anonymous", Role: entities.RoleAdmin}

type TokenVerifier interface {
	Verify(token string) (service.Identity, error)
}

// Auth requires a valid token from the Authorization header or the
// access_token cookie. When enabled=false every request passes as Anonymous.
func Auth(enabled bool, v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				c.Set(identityKey, Anonymous)
				return next(c)
			}
			token := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				if ck, err := c.Cookie(TokenCookie); err == nil {
					token = ck.Value
				}
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
			}
			id, err := v.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireRole answers 403 unless the caller has role. It must run after Auth.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
			}
			if id.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": role + " role required"})
			}
			return next(c)
		}
	}
}

func CurrentIdentity(c echo.Context) (service.Identity, bool) {
	id, ok := c.Get(identityKey).(service.Identity)
	return id, ok
}

func bearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
