package service

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// Identity is the authenticated caller.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// Account is a user seeded from configuration.
type Account struct {
	Username string
	Password string
	Role     string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, id Identity, err error)
	// Verify parses a signed token. Any failure is reported as ErrUnauthorized.
	Verify(token string) (Identity, error)
	Seed(ctx context.Context, accounts ...Account) error
}
