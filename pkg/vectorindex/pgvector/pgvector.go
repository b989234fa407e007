// Package pgvector stores document vectors in PostgreSQL with the pgvector
// extension.
package pgvector

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docqa/pkg/vectorindex"
)

type row struct {
	ID        string          `gorm:"primaryKey"`
	Embedding pgvector.Vector `gorm:"type:vector"`
	Text      string
}

func (row) TableName() string { return "vector_entries" }

type Index struct {
	db *gorm.DB
}

var _ vectorindex.Index = (*Index)(nil)

// New enables the extension and creates the table with a fixed dimension.
func New(db *gorm.DB, dimension int) (*Index, error) {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		return nil, fmt.Errorf("enable pgvector: %w", err)
	}
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS vector_entries (
    id TEXT PRIMARY KEY,
    embedding vector(%d),
    text TEXT
);`, dimension)
	if err := db.Exec(ddl).Error; err != nil {
		return nil, fmt.Errorf("create vector_entries: %w", err)
	}
	return &Index{db: db}, nil
}

func (p *Index) Upsert(ctx context.Context, entries ...vectorindex.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{ID: e.ID, Embedding: pgvector.NewVector(e.Vector), Text: e.Text}
	}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "text"}),
	}).Create(&rows).Error
}

func (p *Index) Query(ctx context.Context, v []float32, topK int) ([]vectorindex.Match, error) {
	var results []struct {
		ID    string
		Text  string
		Score float64
	}
	q := pgvector.NewVector(v)
	err := p.db.WithContext(ctx).Raw(`
        SELECT id, text, 1 - (embedding <=> ?) AS score
        FROM vector_entries
        ORDER BY embedding <=> ?
        LIMIT ?
    `, q, q, topK).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	out := make([]vectorindex.Match, len(results))
	for i, r := range results {
		out[i] = vectorindex.Match{ID: r.ID, Score: r.Score, Text: r.Text}
	}
	return out, nil
}

func (p *Index) DeleteAll(ctx context.Context) error {
	return p.db.WithContext(ctx).Exec(`DELETE FROM vector_entries`).Error
}

func (p *Index) Ping(ctx context.Context) error {
	var n int64
	return p.db.WithContext(ctx).Raw(`SELECT count(*) FROM vector_entries`).Scan(&n).Error
}
