// Package training writes stored documents out as prompt/completion pairs
// for fine-tuning.
package training

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docqa/entities"
	"docqa/pkg/ai"
)

const (
	MinTextChars    = 50
	CompletionChars = 500
	PromptSeparator = "\n\n###"
)

type Example struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type Lister interface {
	List(ctx context.Context) ([]entities.DocumentRecord, error)
}

func questions(name string) []string {
	return []string{
		fmt.Sprintf("What is the main topic of %s?", name),
		fmt.Sprintf("Summarize the key points of %s.", name),
		fmt.Sprintf("What are the important procedures mentioned in %s?", name),
	}
}

// Examples builds three examples per record. Records with fewer than
// MinTextChars characters of text are skipped.
func Examples(recs []entities.DocumentRecord) []Example {
	var out []Example
	for _, r := range recs {
		text := strings.ToLower(r.ExtractedText)
		if utf8.RuneCountInString(text) < MinTextChars {
			continue
		}
		completion := ai.Truncate(text, CompletionChars)
		for _, q := range questions(r.FileName) {
			out = append(out, Example{Prompt: q + PromptSeparator, Completion: completion})
		}
	}
	return out
}

// Write encodes examples as JSON lines.
func Write(w io.Writer, examples []Example) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return err
		}
	}
	return nil
}

// ExportFile writes the examples for every stored document to path and
// returns how many lines were written.
func ExportFile(ctx context.Context, docs Lister, path string) (int, error) {
	recs, err := docs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}
	examples := Examples(recs)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := Write(bw, examples); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(examples), f.Sync()
}
