package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sessionRepo implements SessionRepo with raw SQL.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	rec := &SessionRecord{}
	var state string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, state, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&rec.ID, &state, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	rec.State = []byte(state)
	return rec, nil
}

func (r *sessionRepo) Save(ctx context.Context, rec *SessionRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		rec.ID, string(rec.State), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
