package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
	"github.com/jurisph/legal-qa-backend/internal/qa/service"
)

// Embedder converts text to a vector. Standalone utility endpoint; the chat
// path never uses it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// AuditReader lists recently answered questions for the admin dashboard.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]domain.QueryRecord, error)
}

type Handler struct {
	svc      *service.QAService
	embedder Embedder
	audit    AuditReader
}

func New(svc *service.QAService, embedder Embedder) *Handler {
	return &Handler{svc: svc, embedder: embedder}
}

// WithAuditReader enables the recent-questions listing.
func (h *Handler) WithAuditReader(audit AuditReader) *Handler {
	h.audit = audit
	return h
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/chat", h.chat)
	r.POST("/embeddings", h.embeddings)
	if h.audit != nil {
		r.GET("/admin/queries", h.recentQueries)
	}
}

type chatRequest struct {
	Question string `json:"question"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	result, err := h.svc.Answer(c.Request.Context(), req.Question)
	if err != nil {
		h.writeAnswerError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeAnswerError(c *gin.Context, err error) {
	var retrievalErr *domain.RetrievalError
	var generationErr *domain.GenerationError

	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
	case errors.As(err, &retrievalErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge base search failed"})
	case errors.As(err, &generationErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "answer generation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type embeddingsRequest struct {
	Text string `json:"text"`
}

func (h *Handler) embeddings(c *gin.Context) {
	var req embeddingsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	vec, err := h.embedder.Embed(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "embedding generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"embedding": vec})
}

func (h *Handler) recentQueries(c *gin.Context) {
	records, err := h.audit.Recent(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list queries"})
		return
	}

	type item struct {
		ID          string `json:"id"`
		Question    string `json:"question"`
		Answer      string `json:"answer"`
		SourceCount int    `json:"source_count"`
		LatencyMS   int64  `json:"latency_ms"`
	}
	out := make([]item, 0, len(records))
	for _, rec := range records {
		out = append(out, item(rec))
	}

	c.JSON(http.StatusOK, gin.H{"queries": out})
}
