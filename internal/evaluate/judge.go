package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
)

var verdictSchema = &llm.Schema{
	Name:        "verdict",
	Description: "Correctness verdict for a learner's translation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{"type": "boolean"},
			"feedback":   map[string]any{"type": "string"},
		},
		"required": []any{"is_correct", "feedback"},
	},
}

func judgePrompt(userAnswer, targetText string) string {
	return fmt.Sprintf("You are an expert in Kinyarwanda and English. The target text is '%s'. The user's answer is '%s'. Is the user's answer a correct translation? Consider synonyms and minor grammatical variations. Respond ONLY with a JSON object of the form {\"is_correct\": true or false, \"feedback\": \"one short sentence for the learner\"}. Do not add any other text, titles, or formatting.", targetText, userAnswer)
}

// judge asks the model for a verdict on a nuanced answer.
func (e *Evaluator) judge(ctx context.Context, userAnswer, targetText string) (Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluation)

	resp, err := e.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: judgePrompt(userAnswer, targetText)}},
		Schema:      verdictSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("judge call: %w", err)
	}

	var verdict Result
	if err := json.Unmarshal([]byte(stripFences(resp.Text())), &verdict); err != nil {
		return Result{}, fmt.Errorf("decode verdict: %w", err)
	}
	return verdict, nil
}

// stripFences removes markdown code fences around a JSON payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
