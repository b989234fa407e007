package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"docqa/entities"
	"docqa/pkg/auth/service"
)

type staticVerifier map[string]service.Identity

func (v staticVerifier) Verify(token string) (service.Identity, error) {
	id, ok := v[token]
	if !ok {
		return service.Identity{}, service.ErrUnauthorized
	}
	return id, nil
}

func newEcho(enabled bool) *echo.Echo {
	v := staticVerifier{
		"admin-token": {Username: "admin", Role: entities.RoleAdmin},
		"user-token":  {Username: "user", Role: entities.RoleUser},
	}
	e := echo.New()
	g := e.Group("", Auth(enabled, v))
	g.GET("/me", func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return errors.New("no identity")
		}
		return c.String(http.StatusOK, id.Username)
	})
	g.POST("/upload", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole(entities.RoleAdmin))
	return e
}

func do(e *echo.Echo, method, path string, mod func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mod != nil {
		mod(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func withBearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func TestAuth_TokenSources(t *testing.T) {
	e := newEcho(true)

	rec := do(e, http.MethodGet, "/me", withBearer("user-token"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", rec.Body.String())

	rec = do(e, http.MethodGet, "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "admin-token"})
	})
	assert.Equal(t, "admin", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", withBearer("forged")).Code)
}

func TestRequireRole(t *testing.T) {
	e := newEcho(true)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPost, "/upload", withBearer("user-token")).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/upload", withBearer("admin-token")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodPost, "/upload", nil).Code)
}

func TestAuth_DisabledIsAnonymousAdmin(t *testing.T) {
	e := newEcho(false)
	rec := do(e, http.MethodGet, "/me", nil)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/upload", nil).Code)
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "abc", bearer("Bearer abc"))
	assert.Equal(t, "abc", bearer("bearer  abc"))
	assert.Equal(t, "", bearer("Basic abc"))
	assert.Equal(t, "", bearer("Bearer "))
}
