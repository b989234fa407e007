package serviceImp

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"docqa/config"
	"docqa/pkg/ai"
	"docqa/pkg/document/service"
)

func (s *Svc) Ask(ctx context.Context, question string) (*service.Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, service.ErrQuestionRequired
	}
	if s.opts.Strategy == config.StrategyFullContext {
		return s.askFullContext(ctx, q)
	}
	return s.askVector(ctx, q)
}

func (s *Svc) askVector(ctx context.Context, q string) (*service.Answer, error) {
	vec, err := s.emb.Embed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	slog.Info("[ask] querying vector index", "question", q, "top_k", s.opts.TopK)
	matches, err := s.idx.Query(ctx, vec, s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	parts := make([]string, 0, len(matches))
	refs := make([]service.Reference, 0, len(matches))
	for _, m := range matches {
		if m.Score <= s.opts.Threshold {
			continue
		}
		parts = append(parts, ai.Truncate(m.Text, s.opts.ContextChars))
		refs = append(refs, service.Reference{Filename: m.ID, Score: math.Round(m.Score*100) / 100})
	}
	if len(refs) == 0 {
		return nil, service.ErrNoRelevantDocuments
	}

	answer := s.llm.Answer(ctx, q, strings.Join(parts, "\n\n"))
	return &service.Answer{Answer: answer, References: refs}, nil
}

func (s *Svc) askFullContext(ctx context.Context, q string) (*service.Answer, error) {
	recs, err := s.r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	parts := make([]string, 0, len(recs))
	for _, d := range recs {
		parts = append(parts, ai.Truncate(d.ExtractedText, s.opts.ContextChars))
	}
	contextText := strings.Join(parts, "\n\n")
	if strings.TrimSpace(contextText) == "" {
		contextText = ai.GeneralContext
	}
	return &service.Answer{Answer: s.llm.Answer(ctx, q, contextText)}, nil
}
