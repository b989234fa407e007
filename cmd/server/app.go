package main

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"docqa/config"
	"docqa/database"
	"docqa/entities"
	"docqa/pkg/ai"
	authRepoImp "docqa/pkg/auth/repositoryImp"
	authSvc "docqa/pkg/auth/service"
	authSvcImp "docqa/pkg/auth/serviceImp"
	docRepo "docqa/pkg/document/repository"
	docRepoImp "docqa/pkg/document/repositoryImp"
	docSvcImp "docqa/pkg/document/serviceImp"
	"docqa/pkg/embedder"
	"docqa/pkg/extract"
	folderRepoImp "docqa/pkg/folder/repositoryImp"
	folderSvc "docqa/pkg/folder/service"
	folderSvcImp "docqa/pkg/folder/serviceImp"
	"docqa/pkg/vectorindex"
	"docqa/pkg/vectorindex/memory"
	"docqa/pkg/vectorindex/pgvector"
	"docqa/pkg/vectorindex/pinecone"
	"docqa/pkg/vectorindex/qdrant"
)

// app holds the wired services shared by every command.
type app struct {
	db      *gorm.DB
	index   vectorindex.Index
	docs    *docSvcImp.Svc
	folders folderSvc.FolderService
	auth    authSvc.AuthService
}

func buildApp(ctx context.Context, cfg config.AppConfig) (*app, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	idx, err := openIndex(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	// LLM + embeddings (mock fallback)
	var llm ai.Client
	if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
		llm = ai.NewOpenAI(ai.OpenAIConfig{
			Endpoint:      cfg.LLMEndpoint,
			APIKey:        cfg.LLMAPIKey,
			Model:         cfg.LLMModel,
			Timeout:       cfg.LLMTimeout,
			MaxInputChars: cfg.SummaryInputChars,
		})
	} else {
		slog.Warn("[ai] no LLM endpoint configured, using mock client")
		llm = ai.NewMock()
	}
	opts := docSvcImp.OptionsFrom(cfg)
	var emb embedder.Embedder
	if cfg.EmbEndpoint != "" && cfg.EmbAPIKey != "" {
		emb = embedder.New(embedder.Config{
			Endpoint: cfg.EmbEndpoint,
			APIKey:   cfg.EmbAPIKey,
			Model:    cfg.EmbModel,
			Timeout:  cfg.EmbTimeout,
		})
	} else {
		opts.Threshold = offlineThreshold(opts.Threshold)
		slog.Warn("[ai] no embedding endpoint configured, using hashing embedder",
			"dim", cfg.EmbeddingDim, "relevance_threshold", opts.Threshold)
		emb = embedder.NewHashing(cfg.EmbeddingDim)
	}

	var store docRepo.DocumentRepository
	if cfg.DocStore == config.StoreDatabase {
		store = docRepoImp.New(db)
	} else {
		store = docRepoImp.NewSnapshot(cfg.SnapshotPath)
	}

	users := authSvcImp.New(authRepoImp.New(db), cfg.JWTSecret, cfg.TokenTTL)
	if err := users.Seed(ctx,
		authSvc.Account{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: entities.RoleAdmin},
		authSvc.Account{Username: cfg.UserUsername, Password: cfg.UserPassword, Role: entities.RoleUser},
	); err != nil {
		return nil, err
	}

	return &app{
		db:      db,
		index:   idx,
		docs:    docSvcImp.New(store, idx, extract.New(), llm, emb, opts),
		folders: folderSvcImp.New(folderRepoImp.New(db)),
		auth:    users,
	}, nil
}

func openIndex(ctx context.Context, cfg config.AppConfig, db *gorm.DB) (vectorindex.Index, error) {
	switch cfg.VectorIndex {
	case "pinecone":
		p, err := pinecone.New(pinecone.Config{
			Host:      cfg.PineconeHost,
			APIKey:    cfg.PineconeAPIKey,
			Namespace: cfg.PineconeNamespace,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "qdrant":
		q, err := qdrant.New(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
			Dimension:  cfg.EmbeddingDim,
		})
		if err != nil {
			return nil, err
		}
		if err := q.Init(ctx); err != nil {
			return nil, fmt.Errorf("qdrant init: %w", err)
		}
		return q, nil
	case "pgvector":
		p, err := pgvector.New(db, cfg.EmbeddingDim)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	slog.Info("[index] using in-memory vector index")
	return memory.New(), nil
}

// offlineThreshold caps the relevance threshold for the hashing embedder,
// whose scores only measure shared vocabulary.
func offlineThreshold(t float64) float64 {
	if t > embedder.HashingThreshold {
		return embedder.HashingThreshold
	}
	return t
}

// restoreIndex refills an in-memory index from the document store.
func (a *app) restoreIndex(ctx context.Context) error {
	if _, ok := a.index.(*memory.Index); !ok {
		return nil
	}
	if _, err := a.docs.Reindex(ctx); err != nil {
		return fmt.Errorf("restore vector index: %w", err)
	}
	return nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
