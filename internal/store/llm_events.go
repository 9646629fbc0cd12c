package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// llmEventRepo implements LLMEventRepo with raw SQL.
type llmEventRepo struct {
	db *sql.DB
}

func (r *llmEventRepo) Append(ctx context.Context, data LLMEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events
		 (timestamp, provider, model, purpose, input_tokens, output_tokens,
		  latency_ms, success, request_body, response_body, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
		data.RequestBody, data.ResponseBody, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save model event: %w", err)
	}
	return nil
}

const llmEventColumns = `id, timestamp, provider, model, purpose, input_tokens,
	output_tokens, latency_ms, success, request_body, response_body, error_message`

func scanLLMEvent(row interface{ Scan(...any) error }) (*LLMEvent, error) {
	e := &LLMEvent{}
	err := row.Scan(&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.RequestBody, &e.ResponseBody, &e.ErrorMessage)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *llmEventRepo) List(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	var conds []string
	var args []any
	if opts.Before > 0 {
		conds = append(conds, "id < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, opts.From.UTC())
	}
	if !opts.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, opts.To.UTC())
	}

	query := `SELECT ` + llmEventColumns + ` FROM llm_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query model events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *llmEventRepo) Get(ctx context.Context, id int64) (*LLMEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+llmEventColumns+` FROM llm_events WHERE id = ?`, id)
	e, err := scanLLMEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query model event: %w", err)
	}
	return e, nil
}

func (r *llmEventRepo) UsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*), COALESCE(SUM(input_tokens), 0),
		        COALESCE(SUM(output_tokens), 0), COALESCE(AVG(latency_ms), 0)
		 FROM llm_events GROUP BY purpose ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var usages []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan purpose usage: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

func (r *llmEventRepo) UsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT model, COUNT(*), COALESCE(SUM(input_tokens), 0),
		        COALESCE(SUM(output_tokens), 0)
		 FROM llm_events GROUP BY model ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var usages []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
