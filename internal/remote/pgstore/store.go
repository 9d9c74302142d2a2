// Package pgstore implements the remote contracts straight against the HR
// Postgres database, for deployments where the agent skips the HTTP API.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the slice of pgxpool the store uses; pgxmock satisfies it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Store reads and upserts profile records in a
// profiles(subject_id text, role text, record jsonb, updated_at timestamptz)
// table with a primary key on (subject_id, role).
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, subjectID, role string) (map[string]any, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT record FROM profiles
		WHERE subject_id = $1 AND role = $2
	`, subjectID, role).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load profile record: %w", err)
	}

	record := map[string]any{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode profile record: %w", err)
	}
	return record, nil
}

// Upsert is keyed on (subject_id, role); replaying the same record is a
// plain overwrite, so concurrent first-visit provisioning cannot duplicate
// rows.
func (s *Store) Upsert(ctx context.Context, subjectID, role string, record map[string]any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode profile record: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO profiles (subject_id, role, record, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (subject_id, role)
		DO UPDATE SET record = EXCLUDED.record, updated_at = now()
	`, subjectID, role, raw)
	if err != nil {
		return fmt.Errorf("store profile record: %w", err)
	}
	return nil
}
