package repository

import (
	"context"

	"docqa/entities"
)

type FolderRepository interface {
	Create(ctx context.Context, f *entities.Folder) error
	FindByID(ctx context.Context, id uint) (*entities.Folder, error)
	FindByName(ctx context.Context, name string) (*entities.Folder, error)
	List(ctx context.Context) ([]entities.Folder, error)
}
