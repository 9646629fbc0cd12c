package evaluate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
)

// Result is the verdict on one submitted answer.
type Result struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

// Config bounds the judge model call.
type Config struct {
	// MaxTokens is the token budget for one verdict.
	MaxTokens int

	// Temperature controls judge randomness. Kept low; verdicts should
	// not be creative.
	Temperature float64
}

// DefaultConfig returns the recommended judge limits.
func DefaultConfig() Config {
	return Config{MaxTokens: 256, Temperature: 0.2}
}

// Evaluator scores answers. Riddles, story phrases and the fixed
// proverb/phrase types are compared deterministically so cultural answers
// are never creatively judged by a model; only nuanced types reach the
// judge. Evaluate never fails: every model or parse problem degrades to the
// deterministic comparison.
type Evaluator struct {
	provider llm.Provider
	cfg      Config
	log      zerolog.Logger
}

// New creates an Evaluator on top of the given provider.
func New(provider llm.Provider, cfg Config, logger zerolog.Logger) *Evaluator {
	return &Evaluator{provider: provider, cfg: cfg, log: logger}
}

// Evaluate scores userAnswer against targetText. Give-up keywords take
// precedence over everything, including model availability.
func (e *Evaluator) Evaluate(ctx context.Context, userAnswer, targetText string, challengeType game.ChallengeType) Result {
	if IsGiveUp(userAnswer) {
		return Result{
			IsCorrect: false,
			Feedback:  fmt.Sprintf("You gave up. The correct answer was: %s", targetText),
		}
	}

	switch challengeType {
	case game.TypeGusakuza, game.TypeStoryTranslation, game.TypeKinToEngProverb, game.TypeEngToKinPhrase:
		return exactMatch(userAnswer, targetText)

	case game.TypeImageDescription:
		// No single ground truth for a description.
		return Result{IsCorrect: true, Feedback: "Thanks for describing the image."}

	default:
		res, err := e.judge(ctx, userAnswer, targetText)
		if err != nil {
			e.log.Warn().Err(err).Msg("judge unavailable, falling back to exact comparison")
			return exactMatch(userAnswer, targetText)
		}
		return res
	}
}

// exactMatch compares both strings after normalization.
func exactMatch(userAnswer, targetText string) Result {
	if Normalize(userAnswer) == Normalize(targetText) {
		return Result{IsCorrect: true, Feedback: "Exact match."}
	}
	return Result{
		IsCorrect: false,
		Feedback:  fmt.Sprintf("The expected answer was '%s'.", targetText),
	}
}
