package game

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestApplyAnswer_CorrectAwardsScore(t *testing.T) {
	s := NewState()
	s.IncorrectAnswers = []string{"wrong one", "wrong two"}

	out := ApplyAnswer(s, Answer{
		ChallengeType: TypeEngToKinPhrase,
		TargetText:    "Mwaramutse",
		UserAnswer:    "Mwaramutse",
		Correct:       true,
	}, testRNG())

	if s.Score != 10 {
		t.Errorf("score = %d, want 10", s.Score)
	}
	if out.ScoreAwarded != 10 {
		t.Errorf("awarded = %d, want 10", out.ScoreAwarded)
	}
	if len(s.IncorrectAnswers) != 0 {
		t.Errorf("incorrect answers not cleared: %v", s.IncorrectAnswers)
	}
	if out.GameOver || out.ModeChanged {
		t.Errorf("unexpected flags: %+v", out)
	}
	if out.Message != "Correct!" {
		t.Errorf("message = %q", out.Message)
	}
}

func TestApplyAnswer_RiddleFeedsThematicQueue(t *testing.T) {
	s := NewState()

	ApplyAnswer(s, Answer{
		ChallengeType: TypeGusakuza,
		TargetText:    "amazi",
		UserAnswer:    "amazi",
		Correct:       true,
	}, testRNG())

	if len(s.ThematicWords) != 1 || s.ThematicWords[0] != "amazi" {
		t.Errorf("thematic words = %v, want [amazi]", s.ThematicWords)
	}
}

func TestApplyAnswer_IncorrectCostsLife(t *testing.T) {
	s := NewState()

	out := ApplyAnswer(s, Answer{
		ChallengeType: TypeKinToEngProverb,
		TargetText:    "the truth",
		UserAnswer:    "a guess",
		Correct:       false,
	}, testRNG())

	if s.Lives != 2 {
		t.Errorf("lives = %d, want 2", s.Lives)
	}
	if len(s.IncorrectAnswers) != 1 || s.IncorrectAnswers[0] != "a guess" {
		t.Errorf("incorrect answers = %v", s.IncorrectAnswers)
	}
	if out.GameOver {
		t.Error("unexpected game over")
	}
	if out.Message != "Incorrect." {
		t.Errorf("message = %q", out.Message)
	}
}

func TestApplyAnswer_MilestoneSwitchesMode(t *testing.T) {
	s := NewState()
	s.Score = 40
	s.Difficulty = 1
	s.GameMode = ModeTranslation

	out := ApplyAnswer(s, Answer{
		ChallengeType: TypeEngToKinPhrase,
		Correct:       true,
	}, testRNG())

	if s.Score != 50 {
		t.Fatalf("score = %d, want 50", s.Score)
	}
	if !out.ModeChanged {
		t.Error("expected mode change at milestone")
	}
	if s.GameMode == ModeTranslation {
		t.Error("mode must differ from the previous one")
	}
	if !ValidMode(s.GameMode) {
		t.Errorf("invalid mode %q", s.GameMode)
	}
	if s.Difficulty != 2 {
		t.Errorf("difficulty = %d, want 2", s.Difficulty)
	}
	if !strings.Contains(out.Message, "unlocked a new game mode") {
		t.Errorf("message = %q", out.Message)
	}
}

func TestApplyAnswer_MilestoneCapsDifficulty(t *testing.T) {
	s := NewState()
	s.Score = 90
	s.Difficulty = 3
	s.GameMode = ModeSakwe

	ApplyAnswer(s, Answer{ChallengeType: TypeGusakuza, TargetText: "inkuyo", Correct: true}, testRNG())

	if s.Score != 100 {
		t.Fatalf("score = %d, want 100", s.Score)
	}
	if s.Difficulty != 3 {
		t.Errorf("difficulty = %d, want cap 3", s.Difficulty)
	}
	if s.GameMode == ModeSakwe {
		t.Error("mode must change at milestone")
	}
}

func TestApplyAnswer_GameOverResets(t *testing.T) {
	s := NewState()
	s.Lives = 1
	s.Score = 30
	s.IncorrectAnswers = []string{"old"}
	s.ThematicWords = []string{"amazi"}

	out := ApplyAnswer(s, Answer{
		ChallengeType: TypeEngToKinPhrase,
		UserAnswer:    "nope",
		Correct:       false,
	}, testRNG())

	if !out.GameOver {
		t.Fatal("expected game over")
	}
	if s.Lives != MaxLives {
		t.Errorf("lives = %d, want %d", s.Lives, MaxLives)
	}
	if s.Score != 0 {
		t.Errorf("score = %d, want 0", s.Score)
	}
	if len(s.IncorrectAnswers) != 0 {
		t.Errorf("incorrect answers not cleared: %v", s.IncorrectAnswers)
	}
	if len(s.ThematicWords) != 0 {
		t.Errorf("thematic words not cleared: %v", s.ThematicWords)
	}
	if out.Message != "Game Over! You have no lives left." {
		t.Errorf("message = %q", out.Message)
	}
}

func TestRandomOtherMode_NeverReturnsCurrent(t *testing.T) {
	rng := testRNG()
	for _, current := range AllModes() {
		for i := 0; i < 20; i++ {
			got := randomOtherMode(current, rng)
			if got == current {
				t.Fatalf("randomOtherMode(%q) returned the current mode", current)
			}
			if !ValidMode(got) {
				t.Fatalf("invalid mode %q", got)
			}
		}
	}
}
