package challenge

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/imagebank"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/riddle"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/story"
)

// Deps bundles everything the generator draws on. Provider, Riddles, Images
// and Stories are required. ImageGen is optional; without it image mode
// serves stock photos only. A nil RNG falls back to the shared global.
type Deps struct {
	Provider llm.Provider
	Riddles  *riddle.Bank
	Images   *imagebank.Bank
	Stories  *story.Engine
	ImageGen llm.ImageBackend
	RNG      *rand.Rand
	Logger   zerolog.Logger
}

// Generator produces challenges for every game mode. Model, parse and image
// failures degrade to a static catalog; the only errors callers see are an
// empty riddle bank and an empty image directory.
type Generator struct {
	deps Deps
	cfg  Config
}

// NewGenerator creates a Generator with the given dependencies and limits.
func NewGenerator(deps Deps, cfg Config) *Generator {
	return &Generator{deps: deps, cfg: cfg}
}

// Generate produces the next challenge for the session. Story mode consumes
// the next story chapter; otherwise a queued thematic word takes precedence;
// otherwise the active mode decides. The state is mutated in place (pending
// riddle, thematic queue, story progress) and must be persisted by the
// caller.
func (g *Generator) Generate(ctx context.Context, st *game.State, in Input) (*Challenge, error) {
	ch, err := g.generate(ctx, st, in)
	if err == nil {
		challengesGenerated.WithLabelValues(string(ch.Type)).Inc()
	}
	return ch, err
}

func (g *Generator) generate(ctx context.Context, st *game.State, in Input) (*Challenge, error) {
	mode := st.GameMode
	if !game.ValidMode(mode) {
		mode = game.ModeTranslation
	}
	difficulty := in.Difficulty
	if difficulty <= 0 {
		difficulty = st.Difficulty
	}

	if mode == game.ModeStory {
		return g.storyChallenge(ctx, st, in, difficulty)
	}

	if word, ok := st.PopThematicWord(); ok {
		return g.themedChallenge(ctx, st, in, word, mode, difficulty)
	}

	switch mode {
	case game.ModeSakwe:
		return g.riddleChallenge(st, difficulty)
	case game.ModeImage:
		return g.imageChallenge(ctx, st, in, difficulty)
	default:
		return g.translationChallenge(ctx, st, in, difficulty)
	}
}

func (g *Generator) storyChallenge(ctx context.Context, st *game.State, in Input, difficulty int) (*Challenge, error) {
	chapter := g.deps.Stories.NextChapter(ctx, st)

	prompt := withLearnerContext(storyPrompt(chapter.Text), st.IncorrectAnswers, in.RecentTexts, g.cfg)
	parsed, err := g.ask(ctx, prompt, nil)
	if err != nil {
		g.deps.Logger.Warn().Err(err).Msg("story challenge generation failed, serving static challenge")
		return g.static(st, game.ModeStory, difficulty)
	}

	return &Challenge{
		Type:       game.TypeStoryTranslation,
		SourceText: parsed.Source,
		TargetText: parsed.Target,
		Context:    fmt.Sprintf("Chapter %d: %s", chapter.Number, chapter.Text),
		Difficulty: difficulty,
	}, nil
}

func (g *Generator) themedChallenge(ctx context.Context, st *game.State, in Input, word string, mode game.Mode, difficulty int) (*Challenge, error) {
	prompt := withLearnerContext(themedPrompt(word), st.IncorrectAnswers, in.RecentTexts, g.cfg)
	parsed, err := g.ask(ctx, prompt, nil)
	if err != nil {
		g.deps.Logger.Warn().Err(err).Str("word", word).Msg("themed challenge generation failed, serving static challenge")
		return g.static(st, mode, difficulty)
	}

	return &Challenge{
		Type:       game.TypeThemedTranslation,
		SourceText: parsed.Source,
		TargetText: parsed.Target,
		Difficulty: difficulty,
	}, nil
}

// riddleChallenge announces a riddle round. The riddle itself stays hidden
// in the state until the player replies "soma".
func (g *Generator) riddleChallenge(st *game.State, difficulty int) (*Challenge, error) {
	r, err := g.deps.Riddles.Draw()
	if err != nil {
		return nil, fmt.Errorf("draw riddle: %w", err)
	}

	target := r.Riddle + "|" + r.Answer
	st.PendingRiddle = target
	return &Challenge{
		Type:       game.TypeGusakuzaInit,
		SourceText: "Sakwe sakwe!",
		TargetText: target,
		Context:    "Reply with 'soma' to get the riddle.",
		Difficulty: difficulty,
	}, nil
}

func (g *Generator) imageChallenge(ctx context.Context, st *game.State, in Input, difficulty int) (*Challenge, error) {
	name, err := g.pickImage(ctx, st)
	if err != nil {
		return nil, err
	}

	data, mime, err := g.deps.Images.ReadFile(name)
	if err != nil {
		g.deps.Logger.Warn().Err(err).Str("image", name).Msg("image read failed, serving static challenge")
		return g.static(st, game.ModeImage, difficulty)
	}

	prompt := withLearnerContext(imageDescriptionPrompt, st.IncorrectAnswers, in.RecentTexts, g.cfg)
	parsed, err := g.ask(ctx, prompt, []llm.ImagePart{{MIMEType: mime, Data: data}})
	if err != nil {
		g.deps.Logger.Warn().Err(err).Str("image", name).Msg("image challenge generation failed, serving static challenge")
		return g.static(st, game.ModeImage, difficulty)
	}

	return &Challenge{
		Type:       game.TypeImageDescription,
		SourceText: g.imageURL(name),
		TargetText: fmt.Sprintf("Kinyarwanda: %s | English: %s", parsed.Source, parsed.Target),
		Context:    "Describe the image in either Kinyarwanda or English.",
		Difficulty: difficulty,
	}, nil
}

// pickImage chooses the image for an image challenge. With a backend
// configured it renders a fresh scene first; any failure on that path falls
// back to a random sample image.
func (g *Generator) pickImage(ctx context.Context, st *game.State) (string, error) {
	if g.deps.ImageGen != nil {
		name, err := g.generateImage(ctx, st)
		if err == nil {
			return name, nil
		}
		g.deps.Logger.Warn().Err(err).Msg("image generation failed, using a sample image")
	}
	return g.deps.Images.Draw()
}

// generateImage derives a one-sentence scene from the session's story, when
// it has one, and renders it through the image backend.
func (g *Generator) generateImage(ctx context.Context, st *game.State) (string, error) {
	var chapter string
	if s, ok := story.Decode(st.Story); ok && st.StoryChapter > 0 && st.StoryChapter <= len(s.Chapters) {
		chapter = s.Chapters[st.StoryChapter-1]
	}

	pctx := llm.WithPurpose(ctx, llm.PurposeImagePrompt)
	resp, err := g.deps.Provider.Generate(pctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: scenePrompt(chapter)}},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("derive scene prompt: %w", err)
	}

	scene := strings.TrimSpace(markdownMarkers.ReplaceAllString(resp.Text(), ""))
	if scene == "" {
		return "", fmt.Errorf("empty scene prompt")
	}
	return g.deps.ImageGen.GenerateImage(ctx, scene)
}

func (g *Generator) translationChallenge(ctx context.Context, st *game.State, in Input, difficulty int) (*Challenge, error) {
	level := difficultyWord(difficulty)

	typ := game.TypeKinToEngProverb
	prompt := proverbPrompt(level)
	if g.intN(2) == 1 {
		typ = game.TypeEngToKinPhrase
		prompt = phrasePrompt(level)
	}

	prompt = withLearnerContext(prompt, st.IncorrectAnswers, in.RecentTexts, g.cfg)
	parsed, err := g.ask(ctx, prompt, nil)
	if err != nil {
		g.deps.Logger.Warn().Err(err).Msg("translation generation failed, serving static challenge")
		return g.static(st, game.ModeTranslation, difficulty)
	}

	return &Challenge{
		Type:       typ,
		SourceText: parsed.Source,
		TargetText: parsed.Target,
		Difficulty: difficulty,
	}, nil
}

// Hint asks the model for a one-sentence nudge toward the answer. It never
// fails; the static hint covers the model path being down.
func (g *Generator) Hint(ctx context.Context, ch *Challenge) string {
	ctx = llm.WithPurpose(ctx, llm.PurposeHint)
	resp, err := g.deps.Provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: hintPrompt(ch)}},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.deps.Logger.Warn().Err(err).Msg("hint generation failed, serving static hint")
		return staticHint
	}

	hint := strings.TrimSpace(markdownMarkers.ReplaceAllString(resp.Text(), ""))
	if hint == "" {
		return staticHint
	}
	return hint
}

// ask sends one pipe-format prompt, optionally with image attachments, and
// parses the reply.
func (g *Generator) ask(ctx context.Context, prompt string, images []llm.ImagePart) (Parsed, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChallenge)
	resp, err := g.deps.Provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Images:      images,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return Parsed{}, fmt.Errorf("model call: %w", err)
	}
	return ParseResponse(resp.Text())
}

func (g *Generator) imageURL(name string) string {
	return strings.TrimRight(g.cfg.ImageURLPrefix, "/") + "/" + name
}

func (g *Generator) intN(n int) int {
	if g.deps.RNG != nil {
		return g.deps.RNG.IntN(n)
	}
	return rand.IntN(n)
}
