package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
	"github.com/jurisph/legal-qa-backend/internal/qa/prompt"
)

// Retriever queries the knowledge base for entries relevant to a question.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]domain.KnowledgeEntry, error)
}

// Generator produces an answer from the composed prompt.
type Generator interface {
	Complete(ctx context.Context, userPrompt string) (string, error)
}

// AuditLog records answered questions. Optional; inserts are best-effort.
type AuditLog interface {
	Insert(ctx context.Context, rec domain.QueryRecord) error
}

// QAService runs the retrieval-augmented answer pipeline: validate the
// question, retrieve relevant entries, assemble the context block, invoke the
// generation model, and compose the answer with its sources. The service is
// stateless; every request is an independent linear sequence.
type QAService struct {
	retriever Retriever
	generator Generator
	audit     AuditLog
	topK      int
}

func New(retriever Retriever, generator Generator, topK int) *QAService {
	if topK <= 0 {
		topK = 5
	}
	return &QAService{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// WithAuditLog enables best-effort persistence of answered questions.
func (s *QAService) WithAuditLog(audit AuditLog) *QAService {
	s.audit = audit
	return s
}

// Answer runs one question through the pipeline. A blank question returns
// domain.ErrEmptyQuestion without touching either upstream dependency. Any
// retrieval or generation failure is terminal for the request; neither call
// is retried.
func (s *QAService) Answer(ctx context.Context, question string) (*domain.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	start := time.Now()

	entries, err := s.retriever.Search(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	answer, err := s.generator.Complete(ctx, prompt.Build(question, entries))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	result := &domain.AnswerResult{
		Answer:  answer,
		Sources: entries,
	}

	if s.audit != nil {
		rec := domain.QueryRecord{
			Question:    question,
			Answer:      answer,
			SourceCount: len(entries),
			LatencyMS:   time.Since(start).Milliseconds(),
		}
		if err := s.audit.Insert(ctx, rec); err != nil {
			log.Printf("[qa] audit insert failed: %v", err)
		}
	}

	return result, nil
}
