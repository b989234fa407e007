package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"docqa/entities"
	"docqa/pkg/folder/repository"
	"docqa/pkg/folder/service"
)

type folderService struct{ r repository.FolderRepository }

func New(r repository.FolderRepository) service.FolderService { return &folderService{r: r} }

func (s *folderService) Create(ctx context.Context, name string) (*entities.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, service.ErrNameRequired
	}
	if _, err := s.r.FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", service.ErrFolderExists, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	f := &entities.Folder{Name: name}
	if err := s.r.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

func (s *folderService) List(ctx context.Context) ([]entities.Folder, error) {
	list, err := s.r.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []entities.Folder{}
	}
	return list, nil
}

func (s *folderService) Get(ctx context.Context, id uint) (*entities.Folder, error) {
	f, err := s.r.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrFolderNotFound
	}
	return f, err
}

func (s *folderService) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, service.ErrFolderNotFound) {
		return false, nil
	}
	return err == nil, err
}
