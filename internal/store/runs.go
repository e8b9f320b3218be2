package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run is a persisted extraction run. Result holds the full service-info
// aggregate as it was produced, so downstream readers get the exact output.
type Run struct {
	ID            uuid.UUID       `json:"id"`
	ContentHash   string          `json:"content_hash"`
	ContentLength int             `json:"content_length"`
	Source        string          `json:"source"`
	CompanyName   string          `json:"company_name"`
	AgentCount    int             `json:"agent_count"`
	Result        json.RawMessage `json:"result"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HashContent returns the lowercase hex SHA-256 of the raw config content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SaveRun inserts a new extraction run and returns its generated ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quill_runs (id, content_hash, content_length, source, company_name, agent_count, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		id, run.ContentHash, run.ContentLength, run.Source, run.CompanyName, run.AgentCount, run.Result,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FindByContentHash returns the most recent run for the given content hash,
// or nil when no run with that hash exists.
func (s *Store) FindByContentHash(ctx context.Context, hash string) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx, `
		SELECT id, content_hash, content_length, source, company_name, agent_count, result, created_at
		FROM quill_runs
		WHERE content_hash = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		hash,
	).Scan(&run.ID, &run.ContentHash, &run.ContentLength, &run.Source, &run.CompanyName, &run.AgentCount, &run.Result, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run by hash: %w", err)
	}
	return &run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, content_hash, content_length, source, company_name, agent_count, result, created_at
		FROM quill_runs
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ContentHash, &run.ContentLength, &run.Source, &run.CompanyName, &run.AgentCount, &run.Result, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
