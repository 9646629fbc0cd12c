package challenge

import (
	"fmt"
	"strings"
)

// Prompt templates for the pipe wire format. Every template instructs the
// model to reply with fields separated by a literal "|" and nothing else;
// ParseResponse is the only consumer of the replies.
const (
	imageDescriptionPrompt = "Describe this image of Rwanda in a single, descriptive sentence. Provide the description in both Kinyarwanda and English, separated by a pipe (|). Example: 'Umusozi w'u Rwanda|A Rwandan hill'. Do not add any other text, titles, or formatting."

	imageScenePrompt = "Suggest a single short scene from daily life in Rwanda that would make a good photograph, in one English sentence. Do not add any other text, titles, or formatting."
)

func proverbPrompt(level string) string {
	return fmt.Sprintf("Provide a %s Kinyarwanda proverb and its English translation, separated by a pipe (|). Example: 'Akabando k'iminsi gacibwa kare|A walking stick for old age is prepared in advance'. Do not add any other text, titles, or formatting.", level)
}

func phrasePrompt(level string) string {
	return fmt.Sprintf("Provide a simple %s English phrase and its Kinyarwanda translation, separated by a pipe (|). Example: 'Good morning|Mwaramutse'. Do not add any other text, titles, or formatting.", level)
}

func themedPrompt(word string) string {
	return fmt.Sprintf("Provide a simple English phrase using the word '%s' and its Kinyarwanda translation, separated by a pipe (|). Example: 'The honey is sweet|Uburyo ni buryoshye'. Do not add any other text, titles, or formatting.", word)
}

func storyPrompt(chapter string) string {
	return fmt.Sprintf("Based on this chapter of a story: '%s', create a language challenge. The challenge should be a phrase from the story to translate from English to Kinyarwanda. The output should be in the format 'English phrase|Kinyarwanda translation'. Do not add any other text, titles, or formatting.", chapter)
}

func scenePrompt(chapter string) string {
	if chapter == "" {
		return imageScenePrompt
	}
	return fmt.Sprintf("Based on this scene from a story: '%s', describe a single photograph that could illustrate it, in one English sentence. Do not add any other text, titles, or formatting.", chapter)
}

func hintPrompt(ch *Challenge) string {
	return fmt.Sprintf("A learner is stuck on this language challenge: '%s'. The expected answer is '%s'. Give one short hint in English that points them toward the answer without revealing any part of it. Do not add any other text, titles, or formatting.", ch.SourceText, ch.TargetText)
}

// difficultyWord maps the numeric difficulty to the level word used in
// prompts. Out-of-range values read as intermediate.
func difficultyWord(d int) string {
	switch d {
	case 1:
		return "beginner"
	case 3:
		return "advanced"
	default:
		return "intermediate"
	}
}

// withLearnerContext appends the learner's recent mistakes and the recently
// served challenge texts to a base prompt so the model revisits weak
// vocabulary without repeating itself.
func withLearnerContext(prompt string, incorrect, recent []string, cfg Config) string {
	var b strings.Builder
	b.WriteString(prompt)

	if len(incorrect) > 0 {
		b.WriteString("\nThe learner recently answered these incorrectly: ")
		b.WriteString(quoteJoin(tail(incorrect, cfg.MaxIncorrectAnswers)))
		b.WriteString(". Prefer material that revisits this vocabulary without repeating it verbatim.")
	}
	if len(recent) > 0 {
		b.WriteString("\nDo not repeat any of these recently served challenges: ")
		b.WriteString(quoteJoin(tail(recent, cfg.MaxRecentTexts)))
		b.WriteString(".")
	}
	return b.String()
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}

// tail keeps only the most recent max entries.
func tail(items []string, max int) []string {
	if max > 0 && len(items) > max {
		return items[len(items)-max:]
	}
	return items
}
