// pkg/ai/mock_client.go

package ai

import (
	"context"
	"fmt"
	"strings"
)

// mockClient answers without any network call. It is wired when no LLM
// endpoint is configured.
type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) Summarize(_ context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptySummary
	}
	first := strings.SplitN(text, "\n", 2)[0]
	return fmt.Sprintf("Summary (mock): %s", Truncate(first, 200))
}

func (m *mockClient) Answer(_ context.Context, question, contextText string) string {
	if strings.TrimSpace(contextText) == "" || contextText == GeneralContext {
		return fmt.Sprintf("(mock, general knowledge) %s", question)
	}
	return fmt.Sprintf("(mock) Based on the documents: %s", Truncate(strings.TrimSpace(contextText), 300))
}
