// pkg/ai/openai_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	summarizeSystem = "You are an AI assistant that summarizes company documents."
	answerSystem    = "You are a company AI assistant. Answer questions ONLY based on the provided documents. " +
		"If the answer is not in the documents, say '" + NotEnoughInfo + "'"
)

type OpenAIConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
	// MaxInputChars bounds the text sent for summarization.
	MaxInputChars int
}

type openAI struct {
	endpoint string
	key      string
	model    string
	maxInput int
	httpc    *http.Client
}

func NewOpenAI(cfg OpenAIConfig) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 25 * time.Second
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 4000
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	return &openAI{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		key:      cfg.APIKey,
		model:    cfg.Model,
		maxInput: cfg.MaxInputChars,
		httpc:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *openAI) Summarize(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptySummary
	}
	prompt := "Summarize the following document and explain its key points:\n\n" + Truncate(text, c.maxInput)
	out, err := c.chat(ctx, summarizeSystem, prompt)
	if err != nil {
		slog.Warn("[ai] summary failed", "err", err)
		return FailedSummary
	}
	return out
}

func (c *openAI) Answer(ctx context.Context, question, contextText string) string {
	prompt := fmt.Sprintf("Documents:\n%s\n\nQuestion: %s\n\nAnswer concisely.", contextText, question)
	out, err := c.chat(ctx, answerSystem, prompt)
	if err != nil {
		slog.Warn("[ai] answer failed", "err", err)
		return FailedAnswer
	}
	return out
}

type chatReq struct {
	Model       string              `json:"model"`
	Messages    []map[string]string `json:"messages"`
	Temperature float64             `json:"temperature"`
}

func (c *openAI) chat(ctx context.Context, system, user string) (string, error) {
	b, err := json.Marshal(chatReq{
		Model: c.model,
		Messages: []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat completions: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion")
	}
	return content, nil
}
