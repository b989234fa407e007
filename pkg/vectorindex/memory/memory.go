package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"docqa/pkg/vectorindex"
)

// Index is an in-process brute-force cosine index.
type Index struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]vectorindex.Entry
}

var _ vectorindex.Index = (*Index)(nil)

func New() *Index { return &Index{entries: map[string]vectorindex.Entry{}} }

func (s *Index) Upsert(_ context.Context, entries ...vectorindex.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, ok := s.entries[e.ID]; !ok {
			s.order = append(s.order, e.ID)
		}
		e.Vector = append([]float32(nil), e.Vector...)
		s.entries[e.ID] = e
	}
	return nil
}

func (s *Index) Query(_ context.Context, vector []float32, topK int) ([]vectorindex.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		return nil, nil
	}
	out := make([]vectorindex.Match, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		if len(e.Vector) != len(vector) {
			continue
		}
		out = append(out, vectorindex.Match{ID: id, Score: cosine(vector, e.Vector), Text: e.Text})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (s *Index) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entries = map[string]vectorindex.Entry{}
	return nil
}

func (s *Index) Ping(context.Context) error { return nil }

func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := 0; i < len(a) && i < len(b); i++ {
		dot += float64(a[i] * b[i])
		na += float64(a[i] * a[i])
		nb += float64(b[i] * b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
