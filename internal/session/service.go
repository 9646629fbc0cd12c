package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/challenge"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/evaluate"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/store"
)

var (
	// ErrChallengeNotFound reports an unknown challenge id.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrInvalidMode reports a game mode outside the playable set.
	ErrInvalidMode = errors.New("invalid game mode")

	// ErrInvalidRating reports a feedback rating outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// recentLimit is how many recent challenge texts feed the dedup prompt.
const recentLimit = 10

// SubmitResult is the full outcome of one answer submission.
type SubmitResult struct {
	Message       string `json:"message"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Feedback      string `json:"feedback"`
	ScoreAwarded  int    `json:"score_awarded"`
	NewTotalScore int    `json:"new_total_score"`
	Lives         int    `json:"lives"`
	Score         int    `json:"score"`
	GameOver      bool   `json:"game_over"`
}

// Service runs one quiz round trip per call: load the session state,
// generate or evaluate, persist. Work is serialized per session so
// concurrent requests cannot race the state read-modify-write.
type Service struct {
	store     *store.Store
	generator *challenge.Generator
	evaluator *evaluate.Evaluator
	rng       *rand.Rand
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the service. A nil rng falls back to the shared global,
// which is safe across concurrent sessions; tests inject a seeded one.
func NewService(st *store.Store, gen *challenge.Generator, eval *evaluate.Evaluator, rng *rand.Rand, logger zerolog.Logger) *Service {
	return &Service{
		store:     st,
		generator: gen,
		evaluator: eval,
		rng:       rng,
		log:       logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// NextChallenge generates and persists the session's next challenge. A
// non-empty mode switches the session to that mode first; difficulty > 0
// overrides the state's difficulty for this challenge only. Riddle
// announcements keep the fixed id "gusakuza_init" and are not stored; the
// riddle waits in the state for soma.
func (s *Service) NextChallenge(ctx context.Context, sessionID string, mode game.Mode, difficulty int) (*challenge.Challenge, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if mode != "" {
		if !game.ValidMode(mode) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
		}
		st.GameMode = mode
	}

	recent, err := s.store.Challenges().RecentSources(ctx, "", recentLimit)
	if err != nil {
		s.log.Warn().Err(err).Msg("recent challenge lookup failed")
	}

	ch, err := s.generator.Generate(ctx, st, challenge.Input{Difficulty: difficulty, RecentTexts: recent})
	if err != nil {
		return nil, err
	}

	if ch.Type == game.TypeGusakuzaInit {
		ch.ID = string(game.TypeGusakuzaInit)
	} else {
		ch.ID = uuid.NewString()
		if err := s.saveChallenge(ctx, ch); err != nil {
			return nil, err
		}
	}

	if err := s.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return ch, nil
}

// Soma reveals the pending riddle as a playable challenge.
func (s *Service) Soma(ctx context.Context, sessionID string) (*challenge.Challenge, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ch, err := challenge.Soma(st)
	if err != nil {
		return nil, err
	}

	ch.ID = uuid.NewString()
	if err := s.saveChallenge(ctx, ch); err != nil {
		return nil, err
	}
	if err := s.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return ch, nil
}

// SubmitAnswer evaluates an answer against its challenge and applies the
// game transition. Giving up reveals the answer without costing a life.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, challengeID, answer string) (*SubmitResult, error) {
	lock := s.lockSession(sessionID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.store.Challenges().Get(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	if rec == nil {
		return nil, ErrChallengeNotFound
	}

	st, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	challengeType := game.ChallengeType(rec.Type)
	verdict := s.evaluator.Evaluate(ctx, answer, rec.TargetText, challengeType)

	result := &SubmitResult{
		CorrectAnswer: rec.TargetText,
		Feedback:      verdict.Feedback,
	}

	if evaluate.IsGiveUp(answer) {
		result.Message = "You gave up. The correct answer was:"
	} else {
		outcome := game.ApplyAnswer(st, game.Answer{
			ChallengeType: challengeType,
			TargetText:    rec.TargetText,
			UserAnswer:    answer,
			Correct:       verdict.IsCorrect,
		}, s.rng)

		result.IsCorrect = verdict.IsCorrect
		result.Message = outcome.Message
		result.ScoreAwarded = outcome.ScoreAwarded
		result.GameOver = outcome.GameOver
	}

	if err := s.store.Submissions().Append(ctx, store.SubmissionData{
		SessionID:    sessionID,
		ChallengeID:  challengeID,
		Answer:       answer,
		Correct:      result.IsCorrect,
		ScoreAwarded: result.ScoreAwarded,
	}); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	if err := s.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}

	total, err := s.store.Submissions().TotalScore(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("total score: %w", err)
	}
	result.NewTotalScore = total
	result.Lives = st.Lives
	result.Score = st.Score
	return result, nil
}

// Hint produces a nudge for a stored challenge.
func (s *Service) Hint(ctx context.Context, challengeID string) (string, error) {
	rec, err := s.store.Challenges().Get(ctx, challengeID)
	if err != nil {
		return "", fmt.Errorf("load challenge: %w", err)
	}
	if rec == nil {
		return "", ErrChallengeNotFound
	}
	return s.generator.Hint(ctx, recordToChallenge(rec)), nil
}

// Feedback stores a player's rating of a challenge.
func (s *Service) Feedback(ctx context.Context, challengeID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	return s.store.Feedback().Append(ctx, store.FeedbackData{
		ChallengeID: challengeID,
		Rating:      rating,
		Comment:     comment,
	})
}

// State returns the session's current game state without mutating it.
// Unknown sessions read as a fresh state.
func (s *Service) State(ctx context.Context, sessionID string) (*game.State, error) {
	return s.loadState(ctx, sessionID)
}

// TotalScore returns the points accumulated across every submission in the
// session, surviving in-game score resets.
func (s *Service) TotalScore(ctx context.Context, sessionID string) (int, error) {
	return s.store.Submissions().TotalScore(ctx, sessionID)
}

// lockSession returns the mutex serializing work for one session.
func (s *Service) lockSession(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Service) loadState(ctx context.Context, sessionID string) (*game.State, error) {
	rec, err := s.store.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		return game.NewState(), nil
	}

	var st game.State
	if err := json.Unmarshal(rec.State, &st); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("corrupt session state, starting fresh")
		return game.NewState(), nil
	}
	return &st, nil
}

func (s *Service) saveState(ctx context.Context, sessionID string, st *game.State) error {
	encoded, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.store.Sessions().Save(ctx, &store.SessionRecord{ID: sessionID, State: encoded}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Service) saveChallenge(ctx context.Context, ch *challenge.Challenge) error {
	err := s.store.Challenges().Save(ctx, &store.ChallengeRecord{
		ID:         ch.ID,
		Type:       string(ch.Type),
		SourceText: ch.SourceText,
		TargetText: ch.TargetText,
		Context:    ch.Context,
		Difficulty: ch.Difficulty,
	})
	if err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}
	return nil
}

func recordToChallenge(rec *store.ChallengeRecord) *challenge.Challenge {
	return &challenge.Challenge{
		ID:         rec.ID,
		Type:       game.ChallengeType(rec.Type),
		SourceText: rec.SourceText,
		TargetText: rec.TargetText,
		Context:    rec.Context,
		Difficulty: rec.Difficulty,
	}
}
