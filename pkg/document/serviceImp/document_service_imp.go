package serviceImp

import (
	"context"
	"time"

	"docqa/config"
	"docqa/entities"
	"docqa/pkg/ai"
	"docqa/pkg/document/repository"
	"docqa/pkg/document/service"
	"docqa/pkg/embedder"
	"docqa/pkg/extract"
	"docqa/pkg/vectorindex"
)

type Extractor interface {
	Supports(ext string) bool
	Extract(path, ext string) (string, error)
}

type Options struct {
	UploadDir          string
	AllowedExtensions  []string
	Strategy           string
	TopK               int
	Threshold          float64
	ContextChars       int
	ResetIndexOnIngest bool
	Now                func() time.Time
}

// OptionsFrom maps the application config onto pipeline options.
func OptionsFrom(cfg config.AppConfig) Options {
	return Options{
		UploadDir:          cfg.UploadDir,
		AllowedExtensions:  cfg.AllowedExtensions,
		Strategy:           cfg.RetrievalStrategy,
		TopK:               cfg.TopK,
		Threshold:          cfg.RelevanceThreshold,
		ContextChars:       cfg.ContextChars,
		ResetIndexOnIngest: cfg.VectorResetOnIngest,
	}
}

type Svc struct {
	r       repository.DocumentRepository
	idx     vectorindex.Index
	ex      Extractor
	llm     ai.Client
	emb     embedder.Embedder
	opts    Options
	allowed map[string]bool
}

var _ service.DocumentService = (*Svc)(nil)

func New(r repository.DocumentRepository, idx vectorindex.Index, ex Extractor, llm ai.Client, emb embedder.Embedder, opts Options) *Svc {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = 1000
	}
	if opts.Strategy == "" {
		opts.Strategy = config.StrategyVectorTopK
	}
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	allowed := map[string]bool{}
	for _, e := range opts.AllowedExtensions {
		allowed[extract.NormalizeExt(e)] = true
	}
	return &Svc{r: r, idx: idx, ex: ex, llm: llm, emb: emb, opts: opts, allowed: allowed}
}

func (s *Svc) List(ctx context.Context) ([]entities.DocumentRecord, error) { return s.r.List(ctx) }

func (s *Svc) ListByFolder(ctx context.Context, folderID uint) ([]entities.DocumentRecord, error) {
	return s.r.ListByFolder(ctx, folderID)
}

// allows reports whether ext is both configured and extractable. An empty
// allow-list means every extractable extension.
func (s *Svc) allows(ext string) bool {
	if ext == "" || !s.ex.Supports(ext) {
		return false
	}
	return len(s.allowed) == 0 || s.allowed[ext]
}
