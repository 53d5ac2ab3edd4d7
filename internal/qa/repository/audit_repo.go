package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
)

// AuditRepository persists answered questions for the admin dashboard.
// The pipeline treats inserts as best-effort; a failure here never fails the
// request.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert stores one answered question.
func (r *AuditRepository) Insert(ctx context.Context, rec domain.QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	const q = `
INSERT INTO qa_log (id, question, answer, source_count, latency_ms, created_at)
VALUES ($1, $2, $3, $4, $5, now());
`
	_, err := r.db.Exec(ctx, q, rec.ID, rec.Question, rec.Answer, rec.SourceCount, rec.LatencyMS)
	return err
}

// Recent returns the newest answered questions, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
SELECT id, question, answer, source_count, latency_ms
FROM qa_log
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.QueryRecord, 0, limit)
	for rows.Next() {
		var rec domain.QueryRecord
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.SourceCount, &rec.LatencyMS); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
