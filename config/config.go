package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StrategyVectorTopK  = "vector-topk"
	StrategyFullContext = "full-context"

	StoreSnapshot = "snapshot"
	StoreDatabase = "database"
)

type AppConfig struct {
	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	DBDriver    string `yaml:"db_driver"` // sqlite|postgres
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`

	UploadDir         string   `yaml:"upload_dir"`
	SnapshotPath      string   `yaml:"snapshot_path"`
	DocStore          string   `yaml:"doc_store"` // snapshot|database
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxUploadMB       int      `yaml:"max_upload_mb"`

	RetrievalStrategy  string  `yaml:"retrieval_strategy"`
	TopK               int     `yaml:"top_k"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	ContextChars       int     `yaml:"context_chars"`
	SummaryInputChars  int     `yaml:"summary_input_chars"`

	VectorIndex         string `yaml:"vector_index"` // pinecone|qdrant|pgvector|memory
	VectorResetOnIngest bool   `yaml:"vector_reset_on_ingest"`
	EmbeddingDim        int    `yaml:"embedding_dim"`
	PineconeAPIKey      string `yaml:"pinecone_api_key"`
	PineconeHost        string `yaml:"pinecone_host"`
	PineconeNamespace   string `yaml:"pinecone_namespace"`
	QdrantURL           string `yaml:"qdrant_url"`
	QdrantAPIKey        string `yaml:"qdrant_api_key"`
	QdrantCollection    string `yaml:"qdrant_collection"`

	LLMEndpoint string        `yaml:"llm_endpoint"`
	LLMAPIKey   string        `yaml:"llm_api_key"`
	LLMModel    string        `yaml:"llm_model"`
	LLMTimeout  time.Duration `yaml:"llm_timeout"`
	EmbEndpoint string        `yaml:"emb_endpoint"`
	EmbAPIKey   string        `yaml:"emb_api_key"`
	EmbModel    string        `yaml:"emb_model"`
	EmbTimeout  time.Duration `yaml:"emb_timeout"`

	AuthEnabled   bool          `yaml:"auth_enabled"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
	UserUsername  string        `yaml:"user_username"`
	UserPassword  string        `yaml:"user_password"`

	URLAllowedDomains []string `yaml:"url_allowed_domains"`
	URLMaxBytes       int      `yaml:"url_max_bytes"`
}

func Defaults() AppConfig {
	return AppConfig{
		Port:      "8080",
		StaticDir: "static",
		LogLevel:  "info",
		LogFormat: "text",

		DBDriver: "sqlite",
		DBPath:   "docqa.db",

		UploadDir:         "uploads",
		SnapshotPath:      "processed_data.json",
		DocStore:          StoreSnapshot,
		AllowedExtensions: []string{"pdf", "xlsx", "json", "txt", "html", "htm"},
		MaxUploadMB:       100,

		RetrievalStrategy:  StrategyVectorTopK,
		TopK:               10,
		RelevanceThreshold: 0.75,
		ContextChars:       1000,
		SummaryInputChars:  4000,

		VectorIndex:      "memory",
		EmbeddingDim:     1536,
		QdrantCollection: "document-embeddings",

		LLMModel:   "gpt-4",
		LLMTimeout: 25 * time.Second,
		EmbModel:   "text-embedding-ada-002",
		EmbTimeout: 20 * time.Second,

		AuthEnabled:   true,
		TokenTTL:      time.Hour,
		AdminUsername: "admin",
		UserUsername:  "user",

		URLMaxBytes: 1500000,
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins).
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("[cfg] no .env file loaded", "err", err)
	}

	cfg := Defaults()
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	slog.Info("[cfg] loaded", "config", cfg.Redacted())
	return cfg, nil
}

func loadYAML(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	str := func(k string, dst *string) {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	num := func(k string, dst *int) {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	flt := func(k string, dst *float64) {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	boolean := func(k string, dst *bool) {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	dur := func(k string, dst *time.Duration) {
		if v := os.Getenv(k); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	list := func(k string, dst *[]string) {
		if v := os.Getenv(k); v != "" {
			*dst = splitList(v)
		}
	}

	str("PORT", &cfg.Port)
	str("STATIC_DIR", &cfg.StaticDir)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	str("DB_DRIVER", &cfg.DBDriver)
	str("DB_PATH", &cfg.DBPath)
	str("DATABASE_URL", &cfg.DatabaseURL)

	str("UPLOAD_DIR", &cfg.UploadDir)
	str("PROCESSED_JSON", &cfg.SnapshotPath)
	str("DOC_STORE", &cfg.DocStore)
	list("ALLOWED_EXTENSIONS", &cfg.AllowedExtensions)
	num("MAX_UPLOAD_MB", &cfg.MaxUploadMB)

	str("RETRIEVAL_STRATEGY", &cfg.RetrievalStrategy)
	num("TOP_K", &cfg.TopK)
	flt("RELEVANCE_THRESHOLD", &cfg.RelevanceThreshold)
	num("CONTEXT_CHARS", &cfg.ContextChars)
	num("SUMMARY_INPUT_CHARS", &cfg.SummaryInputChars)

	str("VECTOR_INDEX", &cfg.VectorIndex)
	boolean("VECTOR_RESET_ON_INGEST", &cfg.VectorResetOnIngest)
	num("EMBEDDING_DIM", &cfg.EmbeddingDim)
	str("PINECONE_API_KEY", &cfg.PineconeAPIKey)
	str("PINECONE_INDEX_HOST", &cfg.PineconeHost)
	str("PINECONE_NAMESPACE", &cfg.PineconeNamespace)
	str("QDRANT_URL", &cfg.QdrantURL)
	str("QDRANT_API_KEY", &cfg.QdrantAPIKey)
	str("QDRANT_COLLECTION", &cfg.QdrantCollection)

	str("LLM_ENDPOINT", &cfg.LLMEndpoint)
	str("LLM_API_KEY", &cfg.LLMAPIKey)
	str("LLM_MODEL", &cfg.LLMModel)
	dur("LLM_TIMEOUT", &cfg.LLMTimeout)
	str("EMB_ENDPOINT", &cfg.EmbEndpoint)
	str("EMB_API_KEY", &cfg.EmbAPIKey)
	str("EMB_MODEL", &cfg.EmbModel)
	dur("EMB_TIMEOUT", &cfg.EmbTimeout)

	boolean("AUTH_ENABLED", &cfg.AuthEnabled)
	str("JWT_SECRET", &cfg.JWTSecret)
	dur("TOKEN_TTL", &cfg.TokenTTL)
	str("ADMIN_USERNAME", &cfg.AdminUsername)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)
	str("USER_USERNAME", &cfg.UserUsername)
	str("USER_PASSWORD", &cfg.UserPassword)

	list("KB_ALLOWED_DOMAINS", &cfg.URLAllowedDomains)
	num("KB_MAX_BYTES_PER_PAGE", &cfg.URLMaxBytes)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Validate(cfg AppConfig) error {
	switch cfg.RetrievalStrategy {
	case StrategyVectorTopK, StrategyFullContext:
	default:
		return fmt.Errorf("unknown retrieval strategy %q (want %s or %s)", cfg.RetrievalStrategy, StrategyVectorTopK, StrategyFullContext)
	}
	switch cfg.DocStore {
	case StoreSnapshot, StoreDatabase:
	default:
		return fmt.Errorf("unknown doc store %q", cfg.DocStore)
	}
	switch cfg.VectorIndex {
	case "memory", "pinecone", "qdrant", "pgvector":
	default:
		return fmt.Errorf("unknown vector index %q", cfg.VectorIndex)
	}
	if cfg.VectorIndex == "pgvector" && cfg.DBDriver != "postgres" {
		return errors.New("vector index pgvector requires DB_DRIVER=postgres")
	}
	if cfg.TopK <= 0 {
		return errors.New("top_k must be positive")
	}
	if cfg.ContextChars <= 0 || cfg.SummaryInputChars <= 0 {
		return errors.New("context_chars and summary_input_chars must be positive")
	}
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when auth is enabled")
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c AppConfig) Redacted() AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.DatabaseURL = mask(c.DatabaseURL)
	c.PineconeAPIKey = mask(c.PineconeAPIKey)
	c.QdrantAPIKey = mask(c.QdrantAPIKey)
	c.LLMAPIKey = mask(c.LLMAPIKey)
	c.EmbAPIKey = mask(c.EmbAPIKey)
	c.JWTSecret = mask(c.JWTSecret)
	c.AdminPassword = mask(c.AdminPassword)
	c.UserPassword = mask(c.UserPassword)
	return c
}
