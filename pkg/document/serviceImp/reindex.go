package serviceImp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docqa/pkg/vectorindex"
)

// Reindex upserts every stored document into the vector index. Records kept
// without a vector (the JSON snapshot drops them) are embedded again; those
// that fail to embed are skipped. It returns the number of entries written.
func (s *Svc) Reindex(ctx context.Context) (int, error) {
	recs, err := s.r.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}
	n, reembedded := 0, 0
	for _, rec := range recs {
		vec := rec.Embedding
		if len(vec) == 0 {
			if strings.TrimSpace(rec.ExtractedText) == "" {
				continue
			}
			vec, err = s.emb.Embed(ctx, rec.ExtractedText)
			if err != nil {
				slog.Warn("[reindex] embeddings could not be generated", "file", rec.FileName, "err", err)
				continue
			}
			reembedded++
		}
		entry := vectorindex.Entry{ID: rec.FileName, Vector: vec, Text: rec.ExtractedText}
		if err := s.idx.Upsert(ctx, entry); err != nil {
			return n, fmt.Errorf("upsert %s: %w", rec.FileName, err)
		}
		n++
	}
	slog.Info("[reindex] vector index rebuilt from store", "documents", len(recs), "indexed", n, "reembedded", reembedded)
	return n, nil
}
