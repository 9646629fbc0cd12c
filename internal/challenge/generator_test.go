package challenge

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/imagebank"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/llm"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/riddle"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/story"
)

func sampleImageDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hill.png"), []byte("fake png bytes"), 0o644); err != nil {
		t.Fatalf("write sample image: %v", err)
	}
	return dir
}

func testDeps(t *testing.T, provider llm.Provider) Deps {
	t.Helper()
	return Deps{
		Provider: provider,
		Riddles:  riddle.NewBank([]riddle.Riddle{{Riddle: "Inshyushyu y'umusambi", Answer: "amazi"}}, nil),
		Images:   imagebank.New(sampleImageDir(t), nil),
		Stories:  story.NewEngine(provider, zerolog.Nop()),
		RNG:      rand.New(rand.NewPCG(1, 2)),
		Logger:   zerolog.Nop(),
	}
}

func storyJSON() string {
	return `{"title":"A Walk in Kigali","chapters":["Keza woke up early.","She walked to the market.","The hills turned gold at dusk."]}`
}

func TestGenerate_Translation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte("Amarira y'umugabo atemba ajya mu nda|A man's tears flow inward"),
	})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	st := game.NewState()
	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ch.Type != game.TypeKinToEngProverb && ch.Type != game.TypeEngToKinPhrase {
		t.Errorf("unexpected challenge type: %q", ch.Type)
	}
	if ch.SourceText != "Amarira y'umugabo atemba ajya mu nda" {
		t.Errorf("unexpected source: %q", ch.SourceText)
	}
	if ch.TargetText != "A man's tears flow inward" {
		t.Errorf("unexpected target: %q", ch.TargetText)
	}
	if ch.Difficulty != 1 {
		t.Errorf("expected difficulty 1, got %d", ch.Difficulty)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "beginner") {
		t.Errorf("difficulty 1 should prompt for beginner material: %q", prompt)
	}
}

func TestGenerate_DifficultyOverride(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("a|b")})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	ch, err := gen.Generate(context.Background(), game.NewState(), Input{Difficulty: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Difficulty != 3 {
		t.Errorf("expected difficulty 3, got %d", ch.Difficulty)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "advanced") {
		t.Error("difficulty 3 should prompt for advanced material")
	}
}

func TestGenerate_ThematicWordTakesPrecedence(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte("The honey is sweet|Ubuki buraryoshye"),
	})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	st := game.NewState()
	st.ThematicWords = []string{"ubuki", "amata"}

	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Type != game.TypeThemedTranslation {
		t.Errorf("expected themed_translation, got %q", ch.Type)
	}
	if len(st.ThematicWords) != 1 || st.ThematicWords[0] != "amata" {
		t.Errorf("front of thematic queue should be consumed, got %v", st.ThematicWords)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "'ubuki'") {
		t.Error("prompt must use the dequeued thematic word")
	}
}

func TestGenerate_LearnerContextInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("a|b")})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	st := game.NewState()
	st.IncorrectAnswers = []string{"amata"}

	_, err := gen.Generate(context.Background(), st, Input{RecentTexts: []string{"Good morning"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "answered these incorrectly: 'amata'") {
		t.Errorf("incorrect answers missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "Do not repeat any of these recently served challenges: 'Good morning'") {
		t.Errorf("dedup list missing from prompt: %q", prompt)
	}
}

func TestGenerate_SakweAnnouncesRiddle(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeSakwe

	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Type != game.TypeGusakuzaInit {
		t.Errorf("expected gusakuza_init, got %q", ch.Type)
	}
	if ch.SourceText != "Sakwe sakwe!" {
		t.Errorf("unexpected announcement: %q", ch.SourceText)
	}
	if ch.TargetText != "Inshyushyu y'umusambi|amazi" {
		t.Errorf("unexpected riddle pair: %q", ch.TargetText)
	}
	if st.PendingRiddle != ch.TargetText {
		t.Errorf("pending riddle not stored: %q", st.PendingRiddle)
	}
	if ch.Context != "Reply with 'soma' to get the riddle." {
		t.Errorf("unexpected context: %q", ch.Context)
	}
	if mock.CallCount() != 0 {
		t.Errorf("riddle announcements must not call the model, got %d calls", mock.CallCount())
	}
}

func TestGenerate_SakweEmptyBank(t *testing.T) {
	deps := testDeps(t, llm.NewMockProvider())
	deps.Riddles = riddle.NewBank(nil, nil)
	gen := NewGenerator(deps, DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeSakwe

	_, err := gen.Generate(context.Background(), st, Input{})
	if !errors.Is(err, riddle.ErrEmpty) {
		t.Fatalf("expected riddle.ErrEmpty, got %v", err)
	}
}

func TestGenerate_ImageMode(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte("Umusozi w'u Rwanda|A Rwandan hill"),
	})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeImage

	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Type != game.TypeImageDescription {
		t.Errorf("expected image_description, got %q", ch.Type)
	}
	if ch.SourceText != "/images/hill.png" {
		t.Errorf("unexpected image path: %q", ch.SourceText)
	}
	if ch.TargetText != "Kinyarwanda: Umusozi w'u Rwanda | English: A Rwandan hill" {
		t.Errorf("unexpected target: %q", ch.TargetText)
	}
	if ch.Context != "Describe the image in either Kinyarwanda or English." {
		t.Errorf("unexpected context: %q", ch.Context)
	}

	images := mock.Calls[0].Images
	if len(images) != 1 {
		t.Fatalf("expected one image attachment, got %d", len(images))
	}
	if images[0].MIMEType != "image/png" {
		t.Errorf("unexpected mime type: %q", images[0].MIMEType)
	}
	if string(images[0].Data) != "fake png bytes" {
		t.Error("attachment should carry the image bytes")
	}
}

func TestGenerate_ImageModeEmptyDir(t *testing.T) {
	deps := testDeps(t, llm.NewMockProvider())
	deps.Images = imagebank.New(t.TempDir(), nil)
	gen := NewGenerator(deps, DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeImage

	_, err := gen.Generate(context.Background(), st, Input{})
	if !errors.Is(err, imagebank.ErrNoImages) {
		t.Fatalf("expected imagebank.ErrNoImages, got %v", err)
	}
}

func TestGenerate_StoryMode(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte(storyJSON())},
		llm.MockResponse{Content: []byte("Keza woke up early|Keza yabyutse kare")},
	)
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeStory

	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Type != game.TypeStoryTranslation {
		t.Errorf("expected story_translation, got %q", ch.Type)
	}
	if ch.Context != "Chapter 1: Keza woke up early." {
		t.Errorf("unexpected chapter context: %q", ch.Context)
	}
	if st.StoryChapter != 1 {
		t.Errorf("chapter pointer should advance, got %d", st.StoryChapter)
	}
	if st.Story == "" {
		t.Error("generated story should be kept on the state")
	}
	if !strings.Contains(mock.Calls[1].Messages[0].Content, "Keza woke up early.") {
		t.Error("challenge prompt must quote the chapter")
	}
}

func TestGenerate_MalformedReplyFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("no delimiter at all")})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	ch, err := gen.Generate(context.Background(), game.NewState(), Input{})
	if err != nil {
		t.Fatalf("malformed replies must degrade, not error: %v", err)
	}
	if !isStaticTranslation(ch) {
		t.Errorf("expected a static translation, got %+v", ch)
	}
}

func TestGenerate_NeverErrorsWithFailingModel(t *testing.T) {
	for _, mode := range game.AllModes() {
		for difficulty := 1; difficulty <= 3; difficulty++ {
			t.Run(fmt.Sprintf("%s_d%d", mode, difficulty), func(t *testing.T) {
				gen := NewGenerator(testDeps(t, llm.NewMockProvider()), DefaultConfig())

				st := game.NewState()
				st.GameMode = mode
				st.Difficulty = difficulty

				ch, err := gen.Generate(context.Background(), st, Input{})
				if err != nil {
					t.Fatalf("mode %s: unexpected error: %v", mode, err)
				}
				if ch == nil || ch.SourceText == "" {
					t.Fatalf("mode %s: empty challenge", mode)
				}
				if ch.Difficulty != difficulty {
					t.Errorf("mode %s: difficulty %d not carried, got %d", mode, difficulty, ch.Difficulty)
				}
			})
		}
	}
}

func TestGenerate_StaticFallbackDeterministic(t *testing.T) {
	draw := func() []string {
		deps := testDeps(t, llm.NewMockProvider())
		deps.RNG = rand.New(rand.NewPCG(7, 7))
		gen := NewGenerator(deps, DefaultConfig())

		var seq []string
		for i := 0; i < 6; i++ {
			ch, err := gen.Generate(context.Background(), game.NewState(), Input{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			seq = append(seq, ch.SourceText)
		}
		return seq
	}

	first, second := draw(), draw()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed must give the same fallbacks: %v vs %v", first, second)
		}
	}
}

func TestGenerate_GeneratedImage(t *testing.T) {
	dir := sampleImageDir(t)
	backend := &fakeImageBackend{dir: dir, name: "gen-test.png"}
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte("A fisherman pushing his boat onto Lake Kivu at dawn.")},
		llm.MockResponse{Content: []byte("Umurobyi ku Kivu|A fisherman on Lake Kivu")},
	)

	deps := testDeps(t, mock)
	deps.Images = imagebank.New(dir, nil)
	deps.ImageGen = backend
	gen := NewGenerator(deps, DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeImage

	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.SourceText != "/images/gen-test.png" {
		t.Errorf("expected the generated image to be served, got %q", ch.SourceText)
	}
	if backend.gotPrompt != "A fisherman pushing his boat onto Lake Kivu at dawn." {
		t.Errorf("scene prompt not forwarded to the backend: %q", backend.gotPrompt)
	}
	if len(mock.Calls[1].Images) != 1 {
		t.Fatal("describe call should attach the generated image")
	}
}

func TestGenerate_GeneratedImageFallsBackToSample(t *testing.T) {
	dir := sampleImageDir(t)
	backend := &fakeImageBackend{dir: dir, err: errors.New("image server down")}
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte("A quiet street in Butare.")},
		llm.MockResponse{Content: []byte("Umuhanda|A street")},
	)

	deps := testDeps(t, mock)
	deps.Images = imagebank.New(dir, nil)
	deps.ImageGen = backend
	gen := NewGenerator(deps, DefaultConfig())

	st := game.NewState()
	st.GameMode = game.ModeImage

	ch, err := gen.Generate(context.Background(), st, Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.SourceText != "/images/hill.png" {
		t.Errorf("expected fallback to the sample image, got %q", ch.SourceText)
	}
}

func TestHint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte("Think of what the crane drinks in the morning."),
	})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	ch := &Challenge{SourceText: "Inshyushyu y'umusambi", TargetText: "amazi"}
	hint := gen.Hint(context.Background(), ch)
	if hint != "Think of what the crane drinks in the morning." {
		t.Errorf("unexpected hint: %q", hint)
	}
}

func TestHint_StaticFallback(t *testing.T) {
	gen := NewGenerator(testDeps(t, llm.NewMockProvider()), DefaultConfig())

	hint := gen.Hint(context.Background(), &Challenge{SourceText: "x", TargetText: "y"})
	if hint != staticHint {
		t.Errorf("expected static hint, got %q", hint)
	}
}

func TestHint_StripsMarkdown(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("## Listen for the rain")})
	gen := NewGenerator(testDeps(t, mock), DefaultConfig())

	hint := gen.Hint(context.Background(), &Challenge{SourceText: "x", TargetText: "y"})
	if hint != "Listen for the rain" {
		t.Errorf("markdown markers should be stripped, got %q", hint)
	}
}

func isStaticTranslation(ch *Challenge) bool {
	for _, s := range staticTranslations {
		if ch.SourceText == s.SourceText && ch.TargetText == s.TargetText {
			return true
		}
	}
	return false
}

type fakeImageBackend struct {
	dir       string
	name      string
	err       error
	gotPrompt string
}

func (f *fakeImageBackend) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(filepath.Join(f.dir, f.name), []byte("generated png"), 0o644); err != nil {
		return "", err
	}
	return f.name, nil
}
