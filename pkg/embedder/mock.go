package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// HashingThreshold is the highest relevance threshold that still lets a
// paraphrased question match under the hashing embedder.
const HashingThreshold = 0.3

var wordRe = regexp.MustCompile(`\p{L}+|\p{N}+`)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "of": true, "to": true, "in": true, "on": true,
	"for": true, "and": true, "or": true, "it": true, "this": true, "that": true,
	"with": true, "by": true, "do": true, "does": true, "should": true,
	"when": true, "what": true, "which": true, "who": true, "how": true,
}

// Hashing is an offline embedder: a normalised bag of hashed lowercase word
// stems. Texts sharing vocabulary get a positive cosine similarity.
type Hashing struct{ Dim int }

func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = 256
	}
	return &Hashing{Dim: dim}
}

func (h *Hashing) Embed(_ context.Context, text string) ([]float32, error) {
	words := terms(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}
	v := make([]float32, h.Dim)
	for _, w := range words {
		f := fnv.New32a()
		_, _ = f.Write([]byte(w))
		v[f.Sum32()%uint32(h.Dim)]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v, nil
}

// terms lowercases, drops stop words and strips common suffixes. A text made
// only of stop words keeps them.
func terms(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !stopWords[w] {
			out = append(out, stem(w))
		}
	}
	if len(out) == 0 {
		return words
	}
	return out
}

func stem(w string) string {
	for _, suf := range []string{"ing", "ed", "es", "s", "e"} {
		if len(w) > len(suf)+2 && strings.HasSuffix(w, suf) {
			return strings.TrimSuffix(w, suf)
		}
	}
	return w
}
