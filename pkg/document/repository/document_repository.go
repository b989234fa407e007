package repository

import (
	"context"

	"docqa/entities"
)

type DocumentRepository interface {
	// SaveBatch persists the records of one ingestion batch. Records are keyed
	// by file name; a later batch replaces earlier records with the same name.
	SaveBatch(ctx context.Context, records []entities.DocumentRecord) error
	// List returns all records in store order.
	List(ctx context.Context) ([]entities.DocumentRecord, error)
	ListByFolder(ctx context.Context, folderID uint) ([]entities.DocumentRecord, error)
}
