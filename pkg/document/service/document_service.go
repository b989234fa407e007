package service

import (
	"context"
	"errors"

	"docqa/entities"
	"docqa/pkg/embedder"
)

var (
	ErrNoValidFiles        = errors.New("no valid files uploaded")
	ErrNoRelevantDocuments = errors.New("no relevant documents found")
	ErrQuestionRequired    = errors.New("question is required")
	ErrEmptyExtraction     = errors.New("no text extracted")
	ErrEmbeddingFailed     = embedder.ErrEmbeddingFailed
)

type Upload struct {
	Filename string
	Data     []byte
}

type IngestOptions struct {
	FolderID *uint
}

type FileStatus string

const (
	StatusIndexed  FileStatus = "indexed"  // stored and present in the vector index
	StatusStored   FileStatus = "stored"   // stored, not in the vector index
	StatusRejected FileStatus = "rejected" // no record created
)

type SkipReason string

const (
	ReasonEmptyFilename   SkipReason = "empty_filename"
	ReasonInvalidFilename SkipReason = "invalid_filename"
	ReasonUnsupportedType SkipReason = "unsupported_file_type"
	ReasonSaveFailed      SkipReason = "save_failed"
	ReasonExtraction      SkipReason = "extraction_failed"
	ReasonEmptyExtraction SkipReason = "empty_extraction"
	ReasonSuperseded      SkipReason = "superseded_in_batch"
	ReasonEmbedding       SkipReason = "embedding_failed"
	ReasonIndex           SkipReason = "index_failed"
)

type FileResult struct {
	Filename string     `json:"filename"`
	Status   FileStatus `json:"status"`
	Reason   SkipReason `json:"reason,omitempty"`
}

type FileSummary struct {
	Filename string `json:"filename"`
	Summary  string `json:"summary"`
}

type IngestResult struct {
	Files     []string      `json:"files"`
	Summaries []FileSummary `json:"summaries"`
	Results   []FileResult  `json:"results"`
}

type Reference struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

type Answer struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references,omitempty"`
}

type DocumentService interface {
	// Ingest runs every upload through extraction, summarization, storage and
	// indexing. It returns ErrNoValidFiles together with the per-file results
	// when nothing was stored.
	Ingest(ctx context.Context, uploads []Upload, opts IngestOptions) (*IngestResult, error)
	Ask(ctx context.Context, question string) (*Answer, error)
	List(ctx context.Context) ([]entities.DocumentRecord, error)
	ListByFolder(ctx context.Context, folderID uint) ([]entities.DocumentRecord, error)
}
