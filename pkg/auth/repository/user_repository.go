package repository

import (
	"context"

	"docqa/entities"
)

type UserRepository interface {
	// FindByUsername returns gorm.ErrRecordNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Upsert(ctx context.Context, u *entities.User) error
}
