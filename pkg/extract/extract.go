// Package extract turns uploaded files into plain text, one function per
// file format.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Func extracts the text of the file at path.
type Func func(path string) (string, error)

type Registry struct{ m map[string]Func }

// New returns a registry with every built-in format registered.
func New() *Registry {
	return &Registry{m: map[string]Func{
		"pdf":  PDF,
		"xlsx": XLSX,
		"json": JSON,
		"txt":  Text,
		"html": HTMLFile,
		"htm":  HTMLFile,
	}}
}

// Register adds or replaces the extractor for ext.
func (r *Registry) Register(ext string, fn Func) { r.m[NormalizeExt(ext)] = fn }

func (r *Registry) Supports(ext string) bool {
	_, ok := r.m[NormalizeExt(ext)]
	return ok
}

func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Extract dispatches on ext. Unknown extensions yield ErrUnsupportedFileType.
func (r *Registry) Extract(path, ext string) (string, error) {
	fn, ok := r.m[NormalizeExt(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
	text, err := fn(path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// Ext returns the lowercase extension of name without the dot, or "" when
// name has none.
func Ext(name string) string { return NormalizeExt(filepath.Ext(name)) }

func NormalizeExt(ext string) string { return strings.ToLower(strings.TrimPrefix(ext, ".")) }
