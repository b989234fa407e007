package controllerImp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func health(t *testing.T, h *HealthCtrl) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, h.Health(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "h.db")), &gorm.Config{})
	require.NoError(t, err)

	code, out := health(t, NewHealthCtrl(db, pingFunc(func(context.Context) error { return nil })))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["status"].(map[string]any)["ok"])

	code, out = health(t, NewHealthCtrl(db, pingFunc(func(context.Context) error { return errors.New("qdrant down") })))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	idx := out["checks"].(map[string]any)["vector_index"].(map[string]any)
	assert.Equal(t, "qdrant down", idx["err"])

	code, _ = health(t, NewHealthCtrl(nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
