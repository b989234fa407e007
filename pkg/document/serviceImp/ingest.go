package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docqa/entities"
	"docqa/pkg/document/service"
	"docqa/pkg/extract"
	"docqa/pkg/vectorindex"
)

func (s *Svc) Ingest(ctx context.Context, uploads []service.Upload, opts service.IngestOptions) (*service.IngestResult, error) {
	res := &service.IngestResult{Files: []string{}, Summaries: []service.FileSummary{}, Results: []service.FileResult{}}

	var records []entities.DocumentRecord
	var staged []string        // records[i] -> staging file on disk
	resultOf := []int{}        // records[i] -> res.Results index
	byName := map[string]int{} // file name -> records index

	for _, up := range uploads {
		rec, tmp, reason := s.prepare(ctx, up, opts)
		if rec == nil {
			res.Results = append(res.Results, service.FileResult{Filename: up.Filename, Status: service.StatusRejected, Reason: reason})
			continue
		}
		res.Results = append(res.Results, service.FileResult{Filename: rec.FileName, Status: service.StatusStored, Reason: reason})
		if i, ok := byName[rec.FileName]; ok {
			res.Results[resultOf[i]].Status = service.StatusRejected
			res.Results[resultOf[i]].Reason = service.ReasonSuperseded
			removeFiles(staged[i])
			records[i] = *rec
			staged[i] = tmp
			resultOf[i] = len(res.Results) - 1
			continue
		}
		byName[rec.FileName] = len(records)
		records = append(records, *rec)
		staged = append(staged, tmp)
		resultOf = append(resultOf, len(res.Results)-1)
	}

	if len(records) == 0 {
		slog.Warn("[ingest] no valid files", "uploads", len(uploads))
		return res, service.ErrNoValidFiles
	}
	if err := s.r.SaveBatch(ctx, records); err != nil {
		removeFiles(staged...)
		return nil, fmt.Errorf("store documents: %w", err)
	}
	for i, rec := range records {
		dst := filepath.Join(s.opts.UploadDir, rec.FileName)
		if err := os.Rename(staged[i], dst); err != nil {
			slog.Warn("[ingest] could not move upload into place", "file", rec.FileName, "err", err)
			removeFiles(staged[i])
		}
	}

	if s.opts.ResetIndexOnIngest {
		if err := s.idx.DeleteAll(ctx); err != nil {
			slog.Warn("[ingest] vector index reset failed", "err", err)
		}
	}
	for i, rec := range records {
		if len(rec.Embedding) == 0 {
			continue
		}
		entry := vectorindex.Entry{ID: rec.FileName, Vector: rec.Embedding, Text: rec.ExtractedText}
		r := &res.Results[resultOf[i]]
		if err := s.idx.Upsert(ctx, entry); err != nil {
			slog.Error("[ingest] upsert failed", "file", rec.FileName, "err", err)
			r.Reason = service.ReasonIndex
			continue
		}
		slog.Info("[ingest] upserted embedding", "file", rec.FileName, "dims", len(rec.Embedding))
		r.Status = service.StatusIndexed
	}

	for _, rec := range records {
		res.Files = append(res.Files, rec.FileName)
		res.Summaries = append(res.Summaries, service.FileSummary{Filename: rec.FileName, Summary: rec.Summary})
	}
	return res, nil
}

// prepare runs one upload up to (and including) its embedding. A nil record
// means the file was rejected for the returned reason; a non-empty reason with
// a record means it is stored but not indexable. Accepted uploads stay in a
// staging file until the batch is stored.
func (s *Svc) prepare(ctx context.Context, up service.Upload, opts service.IngestOptions) (*entities.DocumentRecord, string, service.SkipReason) {
	if strings.TrimSpace(up.Filename) == "" {
		return nil, "", service.ReasonEmptyFilename
	}
	if !s.allows(extract.Ext(up.Filename)) {
		slog.Warn("[ingest] unsupported file type", "file", up.Filename)
		return nil, "", service.ReasonUnsupportedType
	}
	name := SanitizeFilename(up.Filename)
	ext := extract.Ext(name)
	if name == "" || !s.allows(ext) {
		return nil, "", service.ReasonInvalidFilename
	}

	path, size, err := s.stage(ext, up.Data)
	if err != nil {
		slog.Error("[ingest] save failed", "file", name, "err", err)
		return nil, "", service.ReasonSaveFailed
	}

	text, err := s.extractText(path, ext)
	if errors.Is(err, service.ErrEmptyExtraction) {
		slog.Warn("[ingest] no text extracted, skipping", "file", name)
		removeFiles(path)
		return nil, "", service.ReasonEmptyExtraction
	}
	if err != nil {
		slog.Warn("[ingest] extraction failed", "file", name, "err", err)
		removeFiles(path)
		return nil, "", service.ReasonExtraction
	}

	rec := &entities.DocumentRecord{
		FileName:      name,
		DateUploaded:  s.opts.Now().Format(entities.DateLayout),
		ExtractedText: text,
		Summary:       s.llm.Summarize(ctx, text),
		Metadata:      entities.DocumentMetadata{FileType: ext, FileSize: size},
		FolderID:      opts.FolderID,
	}

	vec, err := s.emb.Embed(ctx, text)
	if err != nil {
		slog.Error("[ingest] embeddings could not be generated", "file", name, "err", err)
		return rec, path, service.ReasonEmbedding
	}
	rec.Embedding = vec
	return rec, path, ""
}

func (s *Svc) extractText(path, ext string) (string, error) {
	text, err := s.ex.Extract(path, ext)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", service.ErrEmptyExtraction
	}
	return text, nil
}

// stage writes an upload under a temporary name in the upload directory.
func (s *Svc) stage(ext string, data []byte) (string, int64, error) {
	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return "", 0, err
	}
	f, err := os.CreateTemp(s.opts.UploadDir, ".upload-*."+ext)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	n, err := f.Write(data)
	if err != nil {
		removeFiles(f.Name())
		return "", 0, err
	}
	return f.Name(), int64(n), nil
}

func removeFiles(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Warn("[ingest] could not remove staged upload", "path", p, "err", err)
		}
	}
}
