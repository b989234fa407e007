// Package vectorindex defines the contract of the similarity index that holds
// one vector per stored document. Backends live in subpackages.
package vectorindex

import "context"

// Entry is keyed by the document file name; Text is kept as metadata so
// matches can be turned into answer context without a store lookup.
type Entry struct {
	ID     string
	Vector []float32
	Text   string
}

type Match struct {
	ID    string
	Score float64
	Text  string
}

type Index interface {
	// Upsert inserts or replaces entries by ID.
	Upsert(ctx context.Context, entries ...Entry) error
	// Query returns at most topK matches ordered by descending cosine similarity.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
}
