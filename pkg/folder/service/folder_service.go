package service

import (
	"context"
	"errors"

	"docqa/entities"
)

var (
	ErrNameRequired   = errors.New("folder name is required")
	ErrFolderExists   = errors.New("folder already exists")
	ErrFolderNotFound = errors.New("folder not found")
)

type FolderService interface {
	Create(ctx context.Context, name string) (*entities.Folder, error)
	List(ctx context.Context) ([]entities.Folder, error)
	Get(ctx context.Context, id uint) (*entities.Folder, error)
	Exists(ctx context.Context, id uint) (bool, error)
}
