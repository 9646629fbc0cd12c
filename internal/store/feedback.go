package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// feedbackRepo implements FeedbackRepo with raw SQL.
type feedbackRepo struct {
	db *sql.DB
}

func (r *feedbackRepo) Append(ctx context.Context, data FeedbackData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (timestamp, challenge_id, rating, comment) VALUES (?, ?, ?, ?)`,
		time.Now().UTC(), data.ChallengeID, data.Rating, data.Comment,
	)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepo) ByChallenge(ctx context.Context, challengeID string) ([]FeedbackEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, challenge_id, rating, comment
		 FROM feedback WHERE challenge_id = ? ORDER BY id DESC`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()
	return scanFeedback(rows)
}

func (r *feedbackRepo) List(ctx context.Context, opts QueryOpts) ([]FeedbackEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, challenge_id, rating, comment
		 FROM feedback ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()
	return scanFeedback(rows)
}

func scanFeedback(rows *sql.Rows) ([]FeedbackEntry, error) {
	var entries []FeedbackEntry
	for rows.Next() {
		var e FeedbackEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ChallengeID, &e.Rating, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
