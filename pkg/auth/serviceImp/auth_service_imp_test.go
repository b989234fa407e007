package serviceImp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"docqa/entities"
	"docqa/pkg/auth/repositoryImp"
	"docqa/pkg/auth/service"
)

func newService(t *testing.T) *authService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))
	s := New(repositoryImp.New(db), "secret", time.Hour).(*authService)
	require.NoError(t, s.Seed(context.Background(),
		service.Account{Username: "admin", Password: "admin123", Role: entities.RoleAdmin},
		service.Account{Username: "user", Password: "user123", Role: entities.RoleUser},
		service.Account{Username: "nopass"},
	))
	return s
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	s := newService(t)
	token, id, err := s.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, service.Identity{Username: "admin", Role: entities.RoleAdmin}, id)

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	var claims service.Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, int64(3600), claims.ExpiresAt-claims.IssuedAt)
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	for _, c := range [][2]string{{"admin", "wrong"}, {"ghost", "x"}, {"", ""}, {"nopass", ""}} {
		_, _, err := s.Login(ctx, c[0], c[1])
		assert.ErrorIs(t, err, service.ErrInvalidCredentials, c[0])
	}
}

func TestSeed_UpdatesExisting(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, service.Account{Username: "user", Password: "changed", Role: entities.RoleAdmin}))

	_, _, err := s.Login(ctx, "user", "user123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, id, err := s.Login(ctx, "user", "changed")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, id.Role)
}

func TestVerify_RejectsExpiredAndForeign(t *testing.T) {
	s := newService(t)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := s.Login(context.Background(), "user", "user123")
	require.NoError(t, err)
	s.now = time.Now

	_, err = s.Verify(expired)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	other := New(nil, "other-secret", time.Hour)
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{Username: "x", Role: "admin"}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = other.Verify(foreign)
	assert.NoError(t, err)
	_, err = s.Verify(foreign)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = s.Verify("not-a-token")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
