package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// submissionRepo implements SubmissionRepo with raw SQL.
type submissionRepo struct {
	db *sql.DB
}

func (r *submissionRepo) Append(ctx context.Context, data SubmissionData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (timestamp, session_id, challenge_id, answer, correct, score_awarded)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), data.SessionID, data.ChallengeID, data.Answer, data.Correct, data.ScoreAwarded,
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) TotalScore(ctx context.Context, sessionID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(score_awarded), 0) FROM submissions WHERE session_id = ?`,
		sessionID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query total score: %w", err)
	}
	return total, nil
}

func (r *submissionRepo) Stats(ctx context.Context) (PlayStats, error) {
	var st PlayStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT session_id), COUNT(*),
		        COALESCE(SUM(correct), 0), COALESCE(SUM(score_awarded), 0)
		 FROM submissions`,
	).Scan(&st.Sessions, &st.Attempts, &st.Correct, &st.ScoreAwarded)
	if err != nil {
		return PlayStats{}, fmt.Errorf("query play stats: %w", err)
	}
	return st, nil
}

func (r *submissionRepo) StatsByType(ctx context.Context) ([]TypeStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.type, COUNT(*), COALESCE(SUM(s.correct), 0)
		 FROM submissions s JOIN challenges c ON c.id = s.challenge_id
		 GROUP BY c.type ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats by type: %w", err)
	}
	defer rows.Close()

	var stats []TypeStats
	for rows.Next() {
		var ts TypeStats
		if err := rows.Scan(&ts.Type, &ts.Attempts, &ts.Correct); err != nil {
			return nil, fmt.Errorf("scan type stats: %w", err)
		}
		stats = append(stats, ts)
	}
	return stats, rows.Err()
}

func (r *submissionRepo) BySession(ctx context.Context, sessionID string, opts QueryOpts) ([]Submission, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, session_id, challenge_id, answer, correct, score_awarded
		 FROM submissions WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		err := rows.Scan(&s.ID, &s.Timestamp, &s.SessionID, &s.ChallengeID,
			&s.Answer, &s.Correct, &s.ScoreAwarded)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
