// Package qdrant is a minimal REST client to a Qdrant collection.
// It assumes cosine distance and creates the collection if missing.
package qdrant

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

	"github.com/google/uuid"

	"docqa/pkg/vectorindex"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

type Index struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

var _ vectorindex.Index = (*Index)(nil)

var errNotFound = errors.New("not found")

func New(cfg Config) (*Index, error) {
	if cfg.URL == "" || cfg.Collection == "" {
		return nil, errors.New("qdrant: url and collection are required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("qdrant: invalid dimension")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// PointID maps a document id to the UUID Qdrant requires. Same id, same point.
func PointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("docqa:"+id)).String()
}

// Init creates the collection when it does not exist yet.
func (s *Index) Init(ctx context.Context) error {
	err := s.do(ctx, http.MethodGet, s.collectionURL(), nil, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errNotFound) {
		return err
	}
	body := map[string]any{
		"vectors": map[string]any{"size": s.dimension, "distance": "Cosine"},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(), body, nil)
}

func (s *Index) Upsert(ctx context.Context, entries ...vectorindex.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			"id":     PointID(e.ID),
			"vector": e.Vector,
			"payload": map[string]any{
				"file_name": e.ID,
				"text":      e.Text,
			},
		}
	}
	return s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", map[string]any{"points": points}, nil)
}

func (s *Index) Query(ctx context.Context, v []float32, topK int) ([]vectorindex.Match, error) {
	req := map[string]any{"vector": v, "limit": topK, "with_payload": true}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	out := make([]vectorindex.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := vectorindex.Match{Score: r.Score}
		m.ID, _ = r.Payload["file_name"].(string)
		m.Text, _ = r.Payload["text"].(string)
		out = append(out, m)
	}
	return out, nil
}

// DeleteAll drops and recreates the collection.
func (s *Index) DeleteAll(ctx context.Context) error {
	if err := s.do(ctx, http.MethodDelete, s.collectionURL(), nil, nil); err != nil && !errors.Is(err, errNotFound) {
		return err
	}
	return s.Init(ctx)
}

func (s *Index) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, s.collectionURL(), nil, nil)
}

func (s *Index) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.url, s.collection)
}

func (s *Index) do(ctx context.Context, method, url string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("qdrant %s %s: %w", method, url, errNotFound)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
