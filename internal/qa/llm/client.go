// Package llm is the HTTP client for the external generation-model service
// (an OpenAI-style chat-completions and embeddings API).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
	"github.com/jurisph/legal-qa-backend/internal/qa/prompt"
)

// Temperature is pinned low to bias the model toward literal grounding in the
// supplied context over creative extrapolation. Not zero: some providers
// degrade oddly at exactly 0.
const Temperature = 0.1

type Client struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	HTTP           *http.Client
}

type Options struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
}

func NewClient(opt Options) *Client {
	if opt.BaseURL == "" {
		opt.BaseURL = "https://api.openai.com/v1"
	}
	if opt.ChatModel == "" {
		opt.ChatModel = "gpt-4o-mini"
	}
	if opt.EmbeddingModel == "" {
		opt.EmbeddingModel = "text-embedding-3-small"
	}
	if opt.Timeout == 0 {
		opt.Timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:        opt.BaseURL,
		APIKey:         opt.APIKey,
		ChatModel:      opt.ChatModel,
		EmbeddingModel: opt.EmbeddingModel,
		HTTP:           &http.Client{Timeout: opt.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the fixed system instruction plus the user prompt to the
// chat-completions endpoint and returns the first choice's content. A
// response with zero choices returns "" without error: no answer produced is
// a valid, low-confidence outcome.
func (c *Client) Complete(ctx context.Context, userPrompt string) (string, error) {
	body := chatRequest{
		Model:       c.ChatModel,
		Temperature: Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.SystemInstruction},
			{Role: "user", Content: userPrompt},
		},
	}

	var out chatResponse
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed converts text to a vector using the embeddings endpoint. It is a
// standalone utility: the retrieval path sends raw question text to the
// search service and never calls this.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var out embeddingResponse
	if err := c.post(ctx, "/embeddings", embeddingRequest{Model: c.EmbeddingModel, Input: text}, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return out.Data[0].Embedding, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return &domain.GenerationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.GenerationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.GenerationError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GenerationError{Err: err}
	}
	return nil
}
