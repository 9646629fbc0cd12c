package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Failover is a Provider that tries an ordered list of candidate models
// until one succeeds. There is no per-candidate retry or backoff: a failed
// candidate is logged and the next one is tried immediately. When every
// candidate fails, Generate returns *ErrAllModelsFailed wrapping the last
// error. It never panics.
type Failover struct {
	candidates []Provider
	log        zerolog.Logger
}

// NewFailover builds a failover runner over the given candidates, in order.
func NewFailover(logger zerolog.Logger, candidates ...Provider) *Failover {
	return &Failover{candidates: candidates, log: logger}
}

// Generate tries each candidate in order and returns the first success.
func (f *Failover) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(f.candidates) == 0 {
		return nil, &ErrAllModelsFailed{Attempts: 0}
	}

	purpose := PurposeFrom(ctx)
	var lastErr error

	for i, candidate := range f.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := candidate.Generate(ctx, req)
		elapsed := time.Since(start)

		modelRequestDuration.WithLabelValues(candidate.ModelID()).Observe(elapsed.Seconds())

		if err == nil {
			modelRequestsTotal.WithLabelValues(candidate.ModelID(), "success").Inc()
			f.log.Debug().
				Str("purpose", purpose).
				Str("model", candidate.ModelID()).
				Int("attempt", i+1).
				Dur("latency", elapsed).
				Msg("model attempt succeeded")
			return resp, nil
		}

		lastErr = err
		modelRequestsTotal.WithLabelValues(candidate.ModelID(), "error").Inc()
		f.log.Warn().
			Str("purpose", purpose).
			Str("model", candidate.ModelID()).
			Int("attempt", i+1).
			Dur("latency", elapsed).
			Err(err).
			Msg("model attempt failed")

		// A cancelled context fails every remaining candidate the same way.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
	}

	return nil, &ErrAllModelsFailed{Attempts: len(f.candidates), Last: lastErr}
}

// ModelID returns the primary (first) candidate's model ID.
func (f *Failover) ModelID() string {
	if len(f.candidates) == 0 {
		return "none"
	}
	return f.candidates[0].ModelID()
}
