package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	Before int64     // id < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionRecord is a persisted game session. State carries the full game
// state as JSON so the game package owns its own shape.
type SessionRecord struct {
	ID        string
	State     json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepo manages game session persistence.
type SessionRepo interface {
	// Get returns the session with the given id, or nil if it does not exist.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// Save upserts the session record, refreshing UpdatedAt.
	Save(ctx context.Context, rec *SessionRecord) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// ChallengeRecord is a generated challenge persisted for replay and
// repetition avoidance.
type ChallengeRecord struct {
	ID         string
	Type       string
	SourceText string
	TargetText string
	Context    string
	Difficulty int
	CreatedAt  time.Time
}

// ChallengeRepo manages generated challenges.
type ChallengeRepo interface {
	// Save stores a new challenge.
	Save(ctx context.Context, rec *ChallengeRecord) error

	// Get returns the challenge with the given id, or nil if it does not exist.
	Get(ctx context.Context, id string) (*ChallengeRecord, error)

	// RecentSources returns the source texts of the most recent challenges of
	// the given type (any type when empty), newest first. Used to steer
	// generation away from repeats.
	RecentSources(ctx context.Context, challengeType string, limit int) ([]string, error)
}

// SubmissionData captures a single answer attempt.
type SubmissionData struct {
	SessionID    string
	ChallengeID  string
	Answer       string
	Correct      bool
	ScoreAwarded int
}

// Submission is a stored answer attempt.
type Submission struct {
	ID        int64
	Timestamp time.Time
	SubmissionData
}

// PlayStats aggregates answer attempts across all sessions.
type PlayStats struct {
	Sessions     int
	Attempts     int
	Correct      int
	ScoreAwarded int
}

// TypeStats aggregates answer attempts for one challenge type.
type TypeStats struct {
	Type     string
	Attempts int
	Correct  int
}

// SubmissionRepo manages answer attempts.
type SubmissionRepo interface {
	// Append records an answer attempt.
	Append(ctx context.Context, data SubmissionData) error

	// TotalScore returns the sum of points awarded across all attempts
	// for the session, surviving life-loss resets of the in-game score.
	TotalScore(ctx context.Context, sessionID string) (int, error)

	// BySession returns the session's attempts, newest first.
	BySession(ctx context.Context, sessionID string, opts QueryOpts) ([]Submission, error)

	// Stats aggregates attempts across all sessions.
	Stats(ctx context.Context) (PlayStats, error)

	// StatsByType aggregates attempts per challenge type, most played first.
	StatsByType(ctx context.Context) ([]TypeStats, error)
}

// FeedbackData captures a player's rating of a challenge.
type FeedbackData struct {
	ChallengeID string
	Rating      int // 1-5
	Comment     string
}

// FeedbackEntry is a stored feedback record.
type FeedbackEntry struct {
	ID        int64
	Timestamp time.Time
	FeedbackData
}

// FeedbackRepo manages challenge feedback.
type FeedbackRepo interface {
	// Append stores a feedback record.
	Append(ctx context.Context, data FeedbackData) error

	// ByChallenge returns feedback for a challenge, newest first.
	ByChallenge(ctx context.Context, challengeID string) ([]FeedbackEntry, error)

	// List returns feedback records, newest first.
	List(ctx context.Context, opts QueryOpts) ([]FeedbackEntry, error)
}

// LLMEventData captures the data for a single model API call.
type LLMEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// LLMEvent is a stored model API call record.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMEventData
}

// PurposeUsage aggregates model usage by request purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// ModelUsage aggregates model usage by model ID.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// LLMEventRepo provides append and query access to model call records.
type LLMEventRepo interface {
	// Append records a model API call.
	Append(ctx context.Context, data LLMEventData) error

	// List returns events, newest first.
	List(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// Get returns the event with the given id, or nil if it does not exist.
	Get(ctx context.Context, id int64) (*LLMEvent, error)

	// UsageByPurpose aggregates calls and token counts per purpose.
	UsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// UsageByModel aggregates calls and token counts per model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}
