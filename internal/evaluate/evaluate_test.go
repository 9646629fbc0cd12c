package evaluate

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
)

func newEvaluator(provider llm.Provider) *Evaluator {
	return New(provider, DefaultConfig(), zerolog.Nop())
}

func TestEvaluate_RiddleNormalization(t *testing.T) {
	e := newEvaluator(llm.NewMockProvider())

	res := e.Evaluate(context.Background(), "  Amazi!", "amazi", game.TypeGusakuza)
	if !res.IsCorrect {
		t.Error("punctuation and case must not matter for riddle answers")
	}

	res = e.Evaluate(context.Background(), "ubwoba", "amazi", game.TypeGusakuza)
	if res.IsCorrect {
		t.Error("a wrong riddle answer must not pass")
	}
	if !strings.Contains(res.Feedback, "amazi") {
		t.Errorf("feedback should reveal the expected answer: %q", res.Feedback)
	}
}

func TestEvaluate_DeterministicTypesSkipModel(t *testing.T) {
	types := []game.ChallengeType{
		game.TypeGusakuza,
		game.TypeStoryTranslation,
		game.TypeKinToEngProverb,
		game.TypeEngToKinPhrase,
	}

	for _, typ := range types {
		mock := llm.NewMockProvider()
		e := newEvaluator(mock)

		res := e.Evaluate(context.Background(), "Mwaramutse", "mwaramutse", typ)
		if !res.IsCorrect {
			t.Errorf("%s: expected exact match to pass", typ)
		}
		if mock.CallCount() != 0 {
			t.Errorf("%s: deterministic types must not call the model", typ)
		}
	}
}

func TestEvaluate_GiveUpShortCircuit(t *testing.T) {
	e := newEvaluator(llm.NewMockProvider())

	for _, answer := range []string{"ngicyo", "GITORE", "Ndatsinzwe, gitore!"} {
		res := e.Evaluate(context.Background(), answer, "amazi", game.TypeThemedTranslation)
		if res.IsCorrect {
			t.Errorf("%q: giving up is never correct", answer)
		}
		if !strings.Contains(res.Feedback, "You gave up") || !strings.Contains(res.Feedback, "amazi") {
			t.Errorf("%q: feedback should concede and reveal the answer: %q", answer, res.Feedback)
		}
	}
}

func TestEvaluate_ImageAlwaysCorrect(t *testing.T) {
	e := newEvaluator(llm.NewMockProvider())

	res := e.Evaluate(context.Background(), "anything at all", "Kinyarwanda: x | English: y", game.TypeImageDescription)
	if !res.IsCorrect {
		t.Error("image descriptions have no single ground truth")
	}
	if res.Feedback == "" {
		t.Error("feedback should acknowledge the submission")
	}
}

func TestEvaluate_JudgeVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte("```json\n{\"is_correct\": true, \"feedback\": \"Byiza cyane!\"}\n```"),
	})
	e := newEvaluator(mock)

	res := e.Evaluate(context.Background(), "Ubuki buraryoshye", "The honey is sweet", game.TypeThemedTranslation)
	if !res.IsCorrect {
		t.Error("judge verdict should be honored")
	}
	if res.Feedback != "Byiza cyane!" {
		t.Errorf("unexpected feedback: %q", res.Feedback)
	}

	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != "verdict" {
		t.Error("judge call must request the verdict schema")
	}
	prompt := req.Messages[0].Content
	if !strings.Contains(prompt, "'The honey is sweet'") || !strings.Contains(prompt, "'Ubuki buraryoshye'") {
		t.Errorf("judge prompt must present both strings: %q", prompt)
	}
}

func TestEvaluate_JudgeMalformedFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("Correct")})
	e := newEvaluator(mock)

	res := e.Evaluate(context.Background(), "The honey is sweet!", "the honey is sweet", game.TypeThemedTranslation)
	if !res.IsCorrect {
		t.Error("fallback comparison should pass a normalized match")
	}
}

func TestEvaluate_JudgeUnavailableFallsBack(t *testing.T) {
	e := newEvaluator(llm.NewMockProvider())

	res := e.Evaluate(context.Background(), "something else", "the honey is sweet", game.TypeThemedTranslation)
	if res.IsCorrect {
		t.Error("fallback comparison should fail a mismatch")
	}
	if res.Feedback == "" {
		t.Error("fallback must still explain the outcome")
	}
}
