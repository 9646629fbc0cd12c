package challenge

import (
	"errors"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
)

// Challenge is one generated quiz item. TargetText holds the expected answer
// and must never reach the player before they respond. The ID is assigned by
// the session layer when the challenge is persisted; riddle announcements
// keep the fixed id "gusakuza_init" and are never stored.
type Challenge struct {
	ID         string             `json:"challenge_id"`
	Type       game.ChallengeType `json:"challenge_type"`
	SourceText string             `json:"source_text"`
	TargetText string             `json:"target_text"`
	Context    string             `json:"context,omitempty"`
	Difficulty int                `json:"difficulty"`
}

// Input carries per-request generation context on top of the session state.
type Input struct {
	// Difficulty overrides the state's difficulty when > 0.
	Difficulty int

	// RecentTexts lists source texts of recently served challenges; the
	// model is told not to repeat them.
	RecentTexts []string
}

// ErrNoPendingRiddle is returned by Soma when no riddle announcement
// preceded it.
var ErrNoPendingRiddle = errors.New("no pending riddle")

// Config bounds the model calls made during generation.
type Config struct {
	// MaxTokens is the token budget for one model reply.
	MaxTokens int

	// Temperature controls model output randomness (0.0-1.0).
	Temperature float64

	// MaxIncorrectAnswers caps how many recent wrong answers are quoted
	// in the prompt.
	MaxIncorrectAnswers int

	// MaxRecentTexts caps how many recent challenge texts are quoted for
	// deduplication.
	MaxRecentTexts int

	// ImageURLPrefix is the URL path under which the image directory is
	// served; image challenge source texts are built from it.
	ImageURLPrefix string
}

// DefaultConfig returns the recommended generation limits.
func DefaultConfig() Config {
	return Config{
		MaxTokens:           256,
		Temperature:         0.7,
		MaxIncorrectAnswers: 5,
		MaxRecentTexts:      8,
		ImageURLPrefix:      "/images",
	}
}
