package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Answer describes one evaluated submission feeding a state transition.
type Answer struct {
	ChallengeType ChallengeType
	TargetText    string
	UserAnswer    string
	Correct       bool
}

// Outcome reports what a state transition did.
type Outcome struct {
	Message      string
	ScoreAwarded int
	GameOver     bool
	ModeChanged  bool
}

// ApplyAnswer mutates the session state for one evaluated answer and returns
// the transition outcome. rng drives the milestone mode switch; a nil rng
// falls back to the shared math/rand/v2 source, which is safe for concurrent
// use.
func ApplyAnswer(s *State, ans Answer, rng *rand.Rand) Outcome {
	var out Outcome

	if ans.Correct {
		s.Score += ScoreAward
		out.ScoreAwarded = ScoreAward
		s.IncorrectAnswers = nil
		out.Message = "Correct!"

		// Solving a riddle feeds its answer into upcoming challenges.
		if ans.ChallengeType == TypeGusakuza {
			s.ThematicWords = append(s.ThematicWords, ans.TargetText)
		}

		if s.Score > 0 && s.Score%ScoreMilestone == 0 {
			s.GameMode = randomOtherMode(s.GameMode, rng)
			s.Difficulty = min(MaxDifficulty, s.Difficulty+1)
			out.ModeChanged = true
			out.Message += fmt.Sprintf(
				" You've unlocked a new game mode: %s! Difficulty increased.",
				capitalize(string(s.GameMode)),
			)
		}
		return out
	}

	s.Lives--
	s.IncorrectAnswers = append(s.IncorrectAnswers, ans.UserAnswer)
	out.Message = "Incorrect."

	if s.Lives <= 0 {
		s.Reset()
		out.GameOver = true
		out.Message = "Game Over! You have no lives left."
	}
	return out
}

// randomOtherMode picks a playable mode different from current.
func randomOtherMode(current Mode, rng *rand.Rand) Mode {
	var candidates []Mode
	for _, m := range AllModes() {
		if m != current {
			candidates = append(candidates, m)
		}
	}
	if rng == nil {
		return candidates[rand.IntN(len(candidates))]
	}
	return candidates[rng.IntN(len(candidates))]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
