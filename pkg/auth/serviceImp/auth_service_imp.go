package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"docqa/entities"
	"docqa/pkg/auth/repository"
	"docqa/pkg/auth/service"
)

type authService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(users repository.UserRepository, secret string, ttl time.Duration) service.AuthService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &authService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, service.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", service.Identity{}, service.ErrInvalidCredentials
	}
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", service.Identity{}, service.ErrInvalidCredentials
	}
	if err != nil {
		return "", service.Identity{}, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", service.Identity{}, service.ErrInvalidCredentials
	}

	id := service.Identity{Username: u.Username, Role: u.Role}
	now := s.now()
	claims := service.Claims{
		Username: id.Username,
		Role:     id.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   id.Username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", service.Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return token, id, nil
}

func (s *authService) Verify(token string) (service.Identity, error) {
	var claims service.Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return service.Identity{}, service.ErrUnauthorized
	}
	if claims.Username == "" || claims.Role == "" {
		return service.Identity{}, service.ErrUnauthorized
	}
	return service.Identity{Username: claims.Username, Role: claims.Role}, nil
}

// Seed creates or updates the given accounts. Accounts without a password are
// skipped.
func (s *authService) Seed(ctx context.Context, accounts ...service.Account) error {
	for _, a := range accounts {
		if strings.TrimSpace(a.Username) == "" || a.Password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", a.Username, err)
		}
		role := a.Role
		if role == "" {
			role = entities.RoleUser
		}
		if err := s.users.Upsert(ctx, &entities.User{Username: a.Username, Password: string(hash), Role: role}); err != nil {
			return fmt.Errorf("seed user %s: %w", a.Username, err)
		}
		slog.Info("[auth] seeded user", "username", a.Username, "role", role)
	}
	return nil
}
