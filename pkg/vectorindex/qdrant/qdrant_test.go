package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/pkg/vectorindex"
)

func TestPointID_Stable(t *testing.T) {
	assert.Equal(t, PointID("manual.pdf"), PointID("manual.pdf"))
	assert.NotEqual(t, PointID("manual.pdf"), PointID("other.pdf"))
}

func TestIndex_InitCreatesMissingCollection(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/docs", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			_, _ = w.Write([]byte(`{"result":true}`))
		}
	}))
	defer srv.Close()

	idx, err := New(Config{URL: srv.URL, Collection: "docs", Dimension: 3})
	require.NoError(t, err)
	require.NoError(t, idx.Init(context.Background()))
	vectors := created["vectors"].(map[string]any)
	assert.Equal(t, float64(3), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestIndex_UpsertAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		switch r.URL.Path {
		case "/collections/docs/points":
			var body struct {
				Points []struct {
					ID      string         `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body.Points, 1)
			assert.Equal(t, PointID("a.pdf"), body.Points[0].ID)
			assert.Equal(t, "a.pdf", body.Points[0].Payload["file_name"])
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/collections/docs/points/search":
			_, _ = w.Write([]byte(`{"result":[{"score":0.8,"payload":{"file_name":"a.pdf","text":"alpha"}}]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	idx, err := New(Config{URL: srv.URL, APIKey: "secret", Collection: "docs", Dimension: 2})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, vectorindex.Entry{ID: "a.pdf", Vector: []float32{1, 0}, Text: "alpha"}))

	got, err := idx.Query(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Equal(t, []vectorindex.Match{{ID: "a.pdf", Score: 0.8, Text: "alpha"}}, got)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{URL: "http://x", Collection: "c"})
	assert.Error(t, err)
	_, err = New(Config{Collection: "c", Dimension: 2})
	assert.Error(t, err)
}
