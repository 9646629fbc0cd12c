package story

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
)

// Story is a short narrative broken into chapters, each of which seeds one
// translation challenge.
type Story struct {
	Title    string   `json:"title"`
	Chapters []string `json:"chapters"`
}

// Chapter is one consumed story chapter.
type Chapter struct {
	Text   string
	Number int // 1-based
}

const generatePrompt = `Write a short, engaging story for a language learning game. The story should be about a character exploring Rwanda. The story should be broken down into 3 chapters. Each chapter should introduce new vocabulary. The story should be in English. The output should be a JSON object with a 'title' and a list of 'chapters', where each chapter is a string. Do not add any other text, titles, or formatting.`

var storySchema = &llm.Schema{
	Name:        "story",
	Description: "A short story split into chapters",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"chapters": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
		},
		"required": []any{"title", "chapters"},
	},
}

// Engine generates stories and walks a session through them chapter by
// chapter via the state's story fields.
type Engine struct {
	provider llm.Provider
	log      zerolog.Logger
}

// NewEngine creates a story engine on top of the given provider.
func NewEngine(provider llm.Provider, logger zerolog.Logger) *Engine {
	return &Engine{provider: provider, log: logger}
}

// NextChapter returns the session's current story chapter and advances the
// chapter pointer. When the state carries no story, an undecodable one, or an
// exhausted one, a fresh story is generated first; if generation fails the
// deterministic fallback story is used. It never fails.
func (e *Engine) NextChapter(ctx context.Context, st *game.State) Chapter {
	s, ok := Decode(st.Story)
	if !ok || st.StoryChapter >= len(s.Chapters) {
		s = e.regenerate(ctx)
		encoded, err := json.Marshal(s)
		if err == nil {
			st.Story = string(encoded)
		}
		st.StoryChapter = 0
	}

	ch := Chapter{Text: s.Chapters[st.StoryChapter], Number: st.StoryChapter + 1}
	st.StoryChapter++
	return ch
}

func (e *Engine) regenerate(ctx context.Context) *Story {
	s, err := e.Generate(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("story generation failed, using fallback story")
		return FallbackStory()
	}
	return s
}

// Generate asks the model for a fresh story.
func (e *Engine) Generate(ctx context.Context) (*Story, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeStory)

	resp, err := e.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: generatePrompt}},
		Schema:      storySchema,
		MaxTokens:   1024,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("generate story: %w", err)
	}

	cleaned := stripFences(resp.Text())
	var s Story
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		return nil, fmt.Errorf("decode story: %w", err)
	}
	if len(s.Chapters) == 0 {
		return nil, fmt.Errorf("story has no chapters")
	}
	return &s, nil
}

// FallbackStory returns the deterministic story used when the model path is
// unavailable.
func FallbackStory() *Story {
	return &Story{
		Title: "A Journey Through Rwanda",
		Chapters: []string{
			"The morning air was crisp and cool in the village of Nyarugenge. Children's laughter echoed as they chased a rolling hoop down the dirt path. In the distance, the lush green hills of Kigali were waking up, ready for a new day.",
			"At the market in Kimironko, Keza greeted the traders with a warm Mwaramutse. Baskets of beans, bananas and passion fruit stood in bright rows, and she learned the name of each one as she filled her bag.",
			"By late afternoon Keza reached the shore of Lake Kivu. Fishermen sang as they pushed their boats onto the water, and she repeated every new word she had learned while the sun sank behind the hills.",
		},
	}
}

// stripFences removes markdown code fences around a JSON payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Decode parses a JSON-encoded story from session state. The second return
// is false for empty, undecodable or chapterless input.
func Decode(raw string) (*Story, bool) {
	if raw == "" {
		return nil, false
	}
	var s Story
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false
	}
	if len(s.Chapters) == 0 {
		return nil, false
	}
	return &s, true
}
