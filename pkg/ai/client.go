// pkg/ai/client.go

package ai

import "context"

// Fallback strings returned instead of errors. Callers store or show them as-is.
const (
	EmptySummary   = "No content available for summarization."
	FailedSummary  = "Summary generation failed."
	FailedAnswer   = "Failed to generate an answer."
	NotEnoughInfo  = "I do not have enough information."
	GeneralContext = "No documents are available. Answer the question using your general knowledge."
)

type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

type Answerer interface {
	Answer(ctx context.Context, question, contextText string) string
}

// Client is the text-generation side of the hosted AI API.
type Client interface {
	Summarizer
	Answerer
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
