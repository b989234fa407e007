package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docqa/entities"
	"docqa/pkg/document/repository"
	"docqa/pkg/embedder"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.DocumentRepository { return &repo{db} }

func (r *repo) SaveBatch(ctx context.Context, records []entities.DocumentRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			row := toRow(records[i])
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "filename"}},
				UpdateAll: true,
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) List(ctx context.Context) ([]entities.DocumentRecord, error) {
	var ds []entities.Document
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ds).Error; err != nil {
		return nil, err
	}
	return toRecords(ds), nil
}

func (r *repo) ListByFolder(ctx context.Context, folderID uint) ([]entities.DocumentRecord, error) {
	var ds []entities.Document
	if err := r.db.WithContext(ctx).Where("folder_id = ?", folderID).Order("id ASC").Find(&ds).Error; err != nil {
		return nil, err
	}
	return toRecords(ds), nil
}

func toRow(d entities.DocumentRecord) entities.Document {
	uploaded, err := time.ParseInLocation(entities.DateLayout, d.DateUploaded, time.Local)
	if err != nil {
		uploaded = time.Now()
	}
	var emb []byte
	if len(d.Embedding) > 0 {
		emb = embedder.FloatsToBytes(d.Embedding)
	}
	return entities.Document{
		Filename:     d.FileName,
		Text:         d.ExtractedText,
		Summary:      d.Summary,
		FileType:     d.Metadata.FileType,
		FileSize:     d.Metadata.FileSize,
		Embeddings:   emb,
		FolderID:     d.FolderID,
		DateUploaded: uploaded,
	}
}

func toRecords(ds []entities.Document) []entities.DocumentRecord {
	out := make([]entities.DocumentRecord, len(ds))
	for i, d := range ds {
		out[i] = entities.DocumentRecord{
			FileName:      d.Filename,
			DateUploaded:  d.DateUploaded.Local().Format(entities.DateLayout),
			ExtractedText: d.Text,
			Summary:       d.Summary,
			Metadata:      entities.DocumentMetadata{FileType: d.FileType, FileSize: d.FileSize},
			FolderID:      d.FolderID,
		}
		if len(d.Embeddings) > 0 {
			out[i].Embedding = embedder.BytesToFloats(d.Embeddings)
		}
	}
	return out
}
