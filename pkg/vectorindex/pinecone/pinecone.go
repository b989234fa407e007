// Package pinecone talks to a Pinecone serverless index over its data-plane
// REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docqa/pkg/vectorindex"
)

const apiVersion = "2024-07"

type Config struct {
	// Host is the index host shown in the Pinecone console, with or without scheme.
	Host      string
	APIKey    string
	Namespace string
	Timeout   time.Duration
}

type Index struct {
	host      string
	apiKey    string
	namespace string
	client    *http.Client
}

var _ vectorindex.Index = (*Index)(nil)

func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		return nil, errors.New("pinecone: index host is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("pinecone: API key is required")
	}
	host := strings.TrimRight(cfg.Host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{host: host, apiKey: cfg.APIKey, namespace: cfg.Namespace, client: &http.Client{Timeout: timeout}}, nil
}

type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (p *Index) Upsert(ctx context.Context, entries ...vectorindex.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	vs := make([]vector, len(entries))
	for i, e := range entries {
		vs[i] = vector{ID: e.ID, Values: e.Vector, Metadata: map[string]any{"text": e.Text}}
	}
	body := map[string]any{"vectors": vs}
	if p.namespace != "" {
		body["namespace"] = p.namespace
	}
	return p.post(ctx, "/vectors/upsert", body, nil)
}

func (p *Index) Query(ctx context.Context, v []float32, topK int) ([]vectorindex.Match, error) {
	body := map[string]any{"vector": v, "topK": topK, "includeMetadata": true}
	if p.namespace != "" {
		body["namespace"] = p.namespace
	}
	var resp struct {
		Matches []struct {
			ID       string         `json:"id"`
			Score    float64        `json:"score"`
			Metadata map[string]any `json:"metadata"`
		} `json:"matches"`
	}
	if err := p.post(ctx, "/query", body, &resp); err != nil {
		return nil, err
	}
	out := make([]vectorindex.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		text, _ := m.Metadata["text"].(string)
		out = append(out, vectorindex.Match{ID: m.ID, Score: m.Score, Text: text})
	}
	return out, nil
}

func (p *Index) DeleteAll(ctx context.Context) error {
	body := map[string]any{"deleteAll": true}
	if p.namespace != "" {
		body["namespace"] = p.namespace
	}
	return p.post(ctx, "/vectors/delete", body, nil)
}

func (p *Index) Ping(ctx context.Context) error {
	return p.post(ctx, "/describe_index_stats", map[string]any{}, nil)
}

func (p *Index) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", p.apiKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pinecone POST %s failed: %s: %s", path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
