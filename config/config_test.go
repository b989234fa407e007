package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	cfg.JWTSecret = "s"
	require.NoError(t, Validate(cfg))
	assert.Equal(t, StrategyVectorTopK, cfg.RetrievalStrategy)
	assert.Equal(t, 10, cfg.TopK)
	assert.InDelta(t, 0.75, cfg.RelevanceThreshold, 1e-9)
	assert.Equal(t, 1000, cfg.ContextChars)
	assert.Equal(t, 4000, cfg.SummaryInputChars)
}

func TestValidate_Rejects(t *testing.T) {
	base := Defaults()
	base.JWTSecret = "s"

	cases := map[string]func(c *AppConfig){
		"strategy":     func(c *AppConfig) { c.RetrievalStrategy = "bm25" },
		"store":        func(c *AppConfig) { c.DocStore = "redis" },
		"index":        func(c *AppConfig) { c.VectorIndex = "faiss" },
		"pgvector":     func(c *AppConfig) { c.VectorIndex = "pgvector"; c.DBDriver = "sqlite" },
		"topk":         func(c *AppConfig) { c.TopK = 0 },
		"jwt":          func(c *AppConfig) { c.JWTSecret = "" },
		"contextChars": func(c *AppConfig) { c.ContextChars = 0 },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mut(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	yml := "port: \"9000\"\nretrieval_strategy: full-context\ntop_k: 3\nllm_timeout: 5s\njwt_secret: from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TOP_K", "7")
	t.Setenv("KB_ALLOWED_DOMAINS", "Example.com, docs.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StrategyFullContext, cfg.RetrievalStrategy)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"example.com", "docs.example.com"}, cfg.URLAllowedDomains)
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.LLMAPIKey = "sk-secret"
	cfg.JWTSecret = "jwt"
	r := cfg.Redacted()
	assert.Equal(t, "***", r.LLMAPIKey)
	assert.Equal(t, "***", r.JWTSecret)
	assert.Equal(t, "", r.PineconeAPIKey)
	assert.Equal(t, "sk-secret", cfg.LLMAPIKey)
}
