// Package retrieval is the HTTP client for the external vector-search
// service. One outbound call per invocation, no retries: retrieval is on the
// critical path and there is no fallback knowledge source.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
)

// DefaultLimit is the result-count limit used when the caller passes 0.
const DefaultLimit = 5

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Results []domain.KnowledgeEntry `json:"results"`
}

// Search sends the raw question text to the search service and returns the
// ranked entries, most relevant first. An empty slice is a valid outcome.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.KnowledgeEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	b, _ := json.Marshal(searchRequest{Query: query, Limit: limit})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/search", bytes.NewReader(b))
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.RetrievalError{Status: resp.StatusCode, Body: string(body)}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	if out.Results == nil {
		// Keep "sources" a JSON array even when the service omits results.
		out.Results = []domain.KnowledgeEntry{}
	}
	return out.Results, nil
}
