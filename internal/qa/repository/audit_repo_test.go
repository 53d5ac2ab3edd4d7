package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
)

// setupTestPostgres connects to the database named by TEST_DB_DSN and makes
// sure the qa_log table exists. Skips the test when the variable is not set.
func setupTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	const schema = `
CREATE TABLE IF NOT EXISTS qa_log (
	id TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	source_count INT NOT NULL,
	latency_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM qa_log;")
		pool.Close()
	})

	return pool
}

func TestAuditInsertAndRecent(t *testing.T) {
	pool := setupTestPostgres(t)
	repo := NewAuditRepository(pool)
	ctx := context.Background()

	err := repo.Insert(ctx, domain.QueryRecord{
		Question:    "What is due process?",
		Answer:      "Notice and hearing.",
		SourceCount: 2,
		LatencyMS:   120,
	})
	require.NoError(t, err)

	records, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.NotEmpty(t, records[0].ID, "insert should assign an id")
	assert.Equal(t, "What is due process?", records[0].Question)
	assert.Equal(t, "Notice and hearing.", records[0].Answer)
	assert.Equal(t, 2, records[0].SourceCount)
}

func TestAuditRecentOrder(t *testing.T) {
	pool := setupTestPostgres(t)
	repo := NewAuditRepository(pool)
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Insert(ctx, domain.QueryRecord{Question: q, Answer: "a"}))
		time.Sleep(10 * time.Millisecond)
	}

	records, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Question, "newest first")
	assert.Equal(t, "second", records[1].Question)
}
