package pinecone

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

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.Error(t, err)
	_, err = New(Config{Host: "h"})
	assert.Error(t, err)

	p, err := New(Config{Host: "idx-abc.svc.pinecone.io/", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://idx-abc.svc.pinecone.io", p.host)
}

func TestIndex_RoundTrip(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("Api-Key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "docs", body["namespace"])

		switch r.URL.Path {
		case "/vectors/upsert":
			vs := body["vectors"].([]any)
			require.Len(t, vs, 1)
			v := vs[0].(map[string]any)
			assert.Equal(t, "manual.pdf", v["id"])
			assert.Equal(t, "Replace filter", v["metadata"].(map[string]any)["text"])
			_, _ = w.Write([]byte(`{"upsertedCount":1}`))
		case "/query":
			assert.Equal(t, float64(10), body["topK"])
			assert.Equal(t, true, body["includeMetadata"])
			_, _ = w.Write([]byte(`{"matches":[{"id":"manual.pdf","score":0.91,"metadata":{"text":"Replace filter"}},{"id":"x","score":0.2}]}`))
		case "/vectors/delete":
			assert.Equal(t, true, body["deleteAll"])
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p, err := New(Config{Host: srv.URL, APIKey: "k", Namespace: "docs"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Upsert(ctx, vectorindex.Entry{ID: "manual.pdf", Vector: []float32{0.1, 0.2}, Text: "Replace filter"}))
	got, err := p.Query(ctx, []float32{0.1, 0.2}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, vectorindex.Match{ID: "manual.pdf", Score: 0.91, Text: "Replace filter"}, got[0])
	assert.Equal(t, "", got[1].Text)
	require.NoError(t, p.DeleteAll(ctx))

	assert.Equal(t, []string{"/vectors/upsert", "/query", "/vectors/delete"}, calls)
}

func TestIndex_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()
	p, err := New(Config{Host: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	_, err = p.Query(context.Background(), []float32{1}, 1)
	assert.ErrorContains(t, err, "401")
	assert.Error(t, p.Ping(context.Background()))
}
