package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a microsite does not exist.
var ErrNotFound = errors.New("microsite not found")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) CreateMicrosite(ctx context.Context, m Microsite) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO microsites (id, business_name, edit_key_hash, config)
		VALUES ($1, $2, $3, $4)
	`, m.ID, m.BusinessName, m.EditKeyHash, m.Config)
	if err != nil {
		return fmt.Errorf("insert microsite: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMicrosite(ctx context.Context, id string) (Microsite, error) {
	const query = `
		SELECT id, business_name, edit_key_hash, config, created_at, updated_at
		FROM microsites
		WHERE id = $1
	`
	var m Microsite
	err := s.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.BusinessName, &m.EditKeyHash, &m.Config, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Microsite{}, ErrNotFound
	}
	if err != nil {
		return Microsite{}, fmt.Errorf("lookup microsite: %w", err)
	}
	return m, nil
}

// SaveConfig writes the saved copy of a microsite config. The upsert makes
// the write retry-safe: the save pipeline may re-invoke it after a failure
// and repeating a completed write changes nothing.
func (s *PostgresStore) SaveConfig(ctx context.Context, id string, config []byte) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE microsites
		SET config = $2, updated_at = NOW()
		WHERE id = $1
	`, id, config)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListMicrosites(ctx context.Context) ([]MicrositeSummary, error) {
	const query = `
		SELECT id, business_name, COALESCE(config->'seoSettings'->>'title', ''), updated_at
		FROM microsites
		ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list microsites: %w", err)
	}
	defer rows.Close()

	var out []MicrositeSummary
	for rows.Next() {
		var m MicrositeSummary
		if err := rows.Scan(&m.ID, &m.BusinessName, &m.SEOTitle, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan microsite: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SearchMicrosites is the Postgres full-text fallback used when
// Meilisearch is unavailable. It matches business name and SEO settings.
func (s *PostgresStore) SearchMicrosites(ctx context.Context, text string, limit int) ([]MicrositeSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, business_name, COALESCE(config->'seoSettings'->>'title', ''), updated_at
		FROM microsites
		WHERE to_tsvector('simple',
			business_name || ' ' ||
			COALESCE(config->'seoSettings'->>'title', '') || ' ' ||
			COALESCE(config->'seoSettings'->>'description', '')
		) @@ plainto_tsquery('simple', $1)
		ORDER BY updated_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, text, limit)
	if err != nil {
		return nil, fmt.Errorf("search microsites: %w", err)
	}
	defer rows.Close()

	var out []MicrositeSummary
	for rows.Next() {
		var m MicrositeSummary
		if err := rows.Scan(&m.ID, &m.BusinessName, &m.SEOTitle, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan microsite: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteMicrosite(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM microsites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete microsite: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
