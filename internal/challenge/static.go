package challenge

import (
	"fmt"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/story"
)

// staticTranslations are the deterministic translation pairs served when the
// model path is down.
var staticTranslations = []Challenge{
	{
		Type:       game.TypeKinToEngProverb,
		SourceText: "Akabando k'iminsi gacibwa kare",
		TargetText: "A walking stick for old age is prepared in advance",
		Context:    "Translate this Kinyarwanda proverb to English.",
	},
	{
		Type:       game.TypeEngToKinPhrase,
		SourceText: "Good morning",
		TargetText: "Mwaramutse",
		Context:    "Translate this English phrase to Kinyarwanda.",
	},
}

// staticHint is served when hint generation fails.
const staticHint = "Say the phrase out loud and listen for a word you already know."

// static returns the deterministic fallback challenge for mode. Image mode
// still needs at least one image on disk; every other mode always succeeds.
func (g *Generator) static(st *game.State, mode game.Mode, difficulty int) (*Challenge, error) {
	challengeFallbacks.Inc()

	switch mode {
	case game.ModeSakwe:
		target := "Igisakuzo|Some Answer"
		if r, err := g.deps.Riddles.Draw(); err == nil {
			target = r.Riddle + "|" + r.Answer
		}
		st.PendingRiddle = target
		return &Challenge{
			Type:       game.TypeGusakuzaInit,
			SourceText: "Sakwe sakwe!",
			TargetText: target,
			Context:    "Reply with 'soma' to get the riddle.",
			Difficulty: difficulty,
		}, nil

	case game.ModeImage:
		name, err := g.deps.Images.Draw()
		if err != nil {
			return nil, fmt.Errorf("pick sample image: %w", err)
		}
		return &Challenge{
			Type:       game.TypeImageDescription,
			SourceText: g.imageURL(name),
			TargetText: "A beautiful Rwandan landscape.",
			Context:    "Describe the image in either Kinyarwanda or English.",
			Difficulty: difficulty,
		}, nil

	case game.ModeStory:
		return &Challenge{
			Type:       game.TypeStoryTranslation,
			SourceText: "Children's laughter echoed.",
			TargetText: "Ibitwenge by'abana byumvikanye.",
			Context:    story.FallbackStory().Chapters[0],
			Difficulty: difficulty,
		}, nil

	default:
		pick := staticTranslations[g.intN(len(staticTranslations))]
		pick.Difficulty = difficulty
		return &pick, nil
	}
}
