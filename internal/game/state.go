package game

// Mode selects which family of challenges a session is served.
type Mode string

const (
	ModeTranslation Mode = "translation"
	ModeStory       Mode = "story"
	ModeSakwe       Mode = "sakwe"
	ModeImage       Mode = "image"
)

// AllModes returns the playable modes in display order.
func AllModes() []Mode {
	return []Mode{ModeStory, ModeTranslation, ModeSakwe, ModeImage}
}

// ValidMode reports whether m names a playable mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeTranslation, ModeStory, ModeSakwe, ModeImage:
		return true
	}
	return false
}

// ChallengeType tags one kind of quiz content.
type ChallengeType string

const (
	TypeKinToEngProverb   ChallengeType = "kin_to_eng_proverb"
	TypeEngToKinPhrase    ChallengeType = "eng_to_kin_phrase"
	TypeStoryTranslation  ChallengeType = "story_translation"
	TypeThemedTranslation ChallengeType = "themed_translation"
	TypeGusakuzaInit      ChallengeType = "gusakuza_init"
	TypeGusakuza          ChallengeType = "gusakuza"
	TypeImageDescription  ChallengeType = "image_description"
)

const (
	// MaxLives is the life count a fresh or reset session starts with.
	MaxLives = 3

	// MaxDifficulty caps milestone-driven difficulty increases.
	MaxDifficulty = 3

	// ScoreAward is the fixed number of points for a correct answer.
	ScoreAward = 10

	// ScoreMilestone triggers a mode switch and difficulty bump.
	ScoreMilestone = 50
)

// State is the mutable per-session game record. It is owned by the session
// layer and passed into the challenge generator and transition logic for one
// request at a time.
type State struct {
	Lives      int  `json:"lives"`
	Score      int  `json:"score"`
	Difficulty int  `json:"difficulty"`
	GameMode   Mode `json:"game_mode"`

	// PendingRiddle holds a "riddle|answer" pair between the sakwe
	// announcement and the soma reveal.
	PendingRiddle string `json:"pending_riddle,omitempty"`

	// ThematicWords is a FIFO of words earned by solving riddles, woven
	// into upcoming challenges.
	ThematicWords []string `json:"thematic_words,omitempty"`

	// Story is a JSON-encoded {title, chapters} narrative; StoryChapter
	// indexes the next chapter to consume.
	Story        string `json:"story,omitempty"`
	StoryChapter int    `json:"story_chapter"`

	// IncorrectAnswers accumulates wrong answers to bias future prompts.
	IncorrectAnswers []string `json:"incorrect_answers,omitempty"`
}

// NewState returns a fresh session state with defaults.
func NewState() *State {
	return &State{
		Lives:      MaxLives,
		Score:      0,
		Difficulty: 1,
		GameMode:   ModeTranslation,
	}
}

// Reset restores the life and score counters after a game over. Game mode,
// difficulty and story progress survive the reset.
func (s *State) Reset() {
	s.Lives = MaxLives
	s.Score = 0
	s.IncorrectAnswers = nil
	s.ThematicWords = nil
}

// PopThematicWord removes and returns the front of the thematic word queue.
func (s *State) PopThematicWord() (string, bool) {
	if len(s.ThematicWords) == 0 {
		return "", false
	}
	word := s.ThematicWords[0]
	s.ThematicWords = s.ThematicWords[1:]
	return word, true
}
