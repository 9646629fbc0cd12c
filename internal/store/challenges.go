package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// challengeRepo implements ChallengeRepo with raw SQL.
type challengeRepo struct {
	db *sql.DB
}

func (r *challengeRepo) Save(ctx context.Context, rec *ChallengeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO challenges (id, type, source_text, target_text, context, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Type, rec.SourceText, rec.TargetText, rec.Context, rec.Difficulty, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}
	return nil
}

func (r *challengeRepo) Get(ctx context.Context, id string) (*ChallengeRecord, error) {
	rec := &ChallengeRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, type, source_text, target_text, context, difficulty, created_at
		 FROM challenges WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Type, &rec.SourceText, &rec.TargetText, &rec.Context, &rec.Difficulty, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query challenge: %w", err)
	}
	return rec, nil
}

func (r *challengeRepo) RecentSources(ctx context.Context, challengeType string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT source_text FROM challenges
		 WHERE (? = '' OR type = ?) ORDER BY created_at DESC, id DESC LIMIT ?`,
		challengeType, challengeType, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}
