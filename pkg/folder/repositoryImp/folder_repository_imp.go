package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"docqa/entities"
	"docqa/pkg/folder/repository"
)

type sqlRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.FolderRepository { return &sqlRepo{db: db} }

func (r *sqlRepo) Create(ctx context.Context, f *entities.Folder) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *sqlRepo) FindByID(ctx context.Context, id uint) (*entities.Folder, error) {
	var out entities.Folder
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sqlRepo) FindByName(ctx context.Context, name string) (*entities.Folder, error) {
	var out entities.Folder
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sqlRepo) List(ctx context.Context) ([]entities.Folder, error) {
	var list []entities.Folder
	return list, r.db.WithContext(ctx).Order("name asc, id asc").Find(&list).Error
}
