package repositoryImp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"docqa/entities"
	"docqa/pkg/document/repository"
)

// snapshotRepo keeps the records of the most recent batch in one JSON file.
// Every SaveBatch overwrites the whole file.
type snapshotRepo struct {
	mu   sync.RWMutex
	path string
}

func NewSnapshot(path string) repository.DocumentRepository { return &snapshotRepo{path: path} }

func (r *snapshotRepo) SaveBatch(_ context.Context, records []entities.DocumentRecord) error {
	if records == nil {
		records = []entities.DocumentRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *snapshotRepo) List(_ context.Context) ([]entities.DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out []entities.DocumentRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", r.path, err)
	}
	return out, nil
}

func (r *snapshotRepo) ListByFolder(ctx context.Context, folderID uint) ([]entities.DocumentRecord, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []entities.DocumentRecord
	for _, d := range all {
		if d.FolderID != nil && *d.FolderID == folderID {
			out = append(out, d)
		}
	}
	return out, nil
}
