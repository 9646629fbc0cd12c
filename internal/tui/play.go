// Package tui implements the terminal play mode: a Bubble Tea program that
// drives the quiz round trip against the session service, so terminal play
// and HTTP play share scoring, lives and persistence.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/challenge"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/session"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/ui/components"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/ui/layout"
)

const (
	inputPlaceholder = "Type your answer, or /hint"
	answerCharLimit  = 200

	spinnerInterval = 100 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// Model is the root Bubble Tea model for terminal play. One Model owns one
// game session identified by a fresh uuid.
type Model struct {
	svc       *session.Service
	sessionID string

	width  int
	height int

	challenge *challenge.Challenge
	result    *session.SubmitResult
	hint      string
	notice    string
	errMsg    string

	lives      int
	score      int
	totalScore int

	loading            bool
	showingFeedback    bool
	showingQuitConfirm bool

	input     components.TextInput
	spinFrame int
}

// New creates a play model over svc with a fresh session id.
func New(svc *session.Service) Model {
	return Model{
		svc:       svc,
		sessionID: uuid.NewString(),
		lives:     game.MaxLives,
		loading:   true,
		input:     components.NewTextInput(inputPlaceholder, answerCharLimit),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchChallenge("", 0),
		spinnerTick(),
		m.input.Init(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinnerTickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinFrame++
		return m, spinnerTick()

	case challengeReadyMsg:
		return m.handleChallengeReady(msg)

	case challengeFailedMsg:
		return m.handleChallengeFailed(msg)

	case answerResultMsg:
		return m.handleAnswerResult(msg)

	case answerFailedMsg:
		m.notice = "Could not evaluate the answer: " + msg.Err.Error()
		return m, nil

	case hintReadyMsg:
		m.hint = msg.Hint
		return m, nil

	case hintFailedMsg:
		m.notice = "No hint available: " + msg.Err.Error()
		return m, nil

	case ratingDoneMsg:
		if msg.Err != nil {
			m.notice = "Could not store feedback: " + msg.Err.Error()
		} else {
			m.notice = "Murakoze! Feedback stored."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.typing() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// typing reports whether keystrokes should reach the answer input.
func (m Model) typing() bool {
	return m.challenge != nil && m.errMsg == "" &&
		!m.loading && !m.showingFeedback && !m.showingQuitConfirm
}

func (m Model) handleChallengeReady(msg challengeReadyMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.challenge = msg.Challenge
	m.hint = ""
	m.notice = ""
	m.input = components.NewTextInput(inputPlaceholder, answerCharLimit)
	return m, m.input.Init()
}

func (m Model) handleChallengeFailed(msg challengeFailedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if m.challenge != nil {
		// Keep the current challenge playable, e.g. when a /mode switch
		// hits an empty riddle bank.
		m.notice = "Could not fetch a challenge: " + msg.Err.Error()
		return m, nil
	}
	m.errMsg = msg.Err.Error()
	return m, nil
}

func (m Model) handleAnswerResult(msg answerResultMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	m.result = res
	m.lives = res.Lives
	m.score = res.Score
	m.totalScore = res.NewTotalScore
	m.input.Submit(res.IsCorrect)
	m.showingFeedback = true
	m.notice = ""
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Fatal state, any key exits.
	if m.errMsg != "" {
		return m, tea.Quit
	}

	if m.showingQuitConfirm {
		switch key {
		case "y", "Y":
			return m, tea.Quit
		case "n", "N", "esc":
			m.showingQuitConfirm = false
		}
		return m, nil
	}

	// Feedback overlay, any key moves on to the next challenge.
	if m.showingFeedback {
		m.showingFeedback = false
		m.result = nil
		m.loading = true
		return m, tea.Batch(m.fetchChallenge("", 0), spinnerTick())
	}

	if m.loading {
		return m, nil
	}

	switch key {
	case "esc":
		m.showingQuitConfirm = true
		return m, nil
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles Enter: reveal a pending riddle, run a slash command, or
// send the typed answer for evaluation.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.challenge == nil {
		return m, nil
	}

	if m.challenge.Type == game.TypeGusakuzaInit {
		m.loading = true
		return m, tea.Batch(m.soma(), spinnerTick())
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}

	return m, m.submitAnswer(text)
}

// runCommand dispatches a slash command typed into the answer input.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	name, args := fields[0], fields[1:]

	// Reset the input so the command does not linger as an answer.
	m.input = components.NewTextInput(inputPlaceholder, answerCharLimit)

	switch name {
	case "/hint":
		return m, tea.Batch(m.input.Init(), m.requestHint())

	case "/mode":
		if len(args) != 1 || !game.ValidMode(game.Mode(args[0])) {
			m.notice = "Usage: /mode translation|story|sakwe|image"
			return m, m.input.Init()
		}
		m.loading = true
		return m, tea.Batch(m.input.Init(), m.fetchChallenge(game.Mode(args[0]), 0), spinnerTick())

	case "/rate":
		if len(args) == 0 {
			m.notice = "Usage: /rate 1-5 [comment]"
			return m, m.input.Init()
		}
		rating, err := strconv.Atoi(args[0])
		if err != nil {
			m.notice = "Usage: /rate 1-5 [comment]"
			return m, m.input.Init()
		}
		return m, tea.Batch(m.input.Init(), m.sendRating(rating, strings.Join(args[1:], " ")))

	case "/quit":
		m.showingQuitConfirm = true
		return m, m.input.Init()
	}

	m.notice = fmt.Sprintf("Unknown command %q. Try /hint, /mode, /rate or /quit.", name)
	return m, m.input.Init()
}

// fetchChallenge asks the service for the next challenge. An empty mode
// keeps the session's current mode.
func (m Model) fetchChallenge(mode game.Mode, difficulty int) tea.Cmd {
	svc, sessionID := m.svc, m.sessionID
	return func() tea.Msg {
		ch, err := svc.NextChallenge(context.Background(), sessionID, mode, difficulty)
		if err != nil {
			return challengeFailedMsg{Err: err}
		}
		return challengeReadyMsg{Challenge: ch}
	}
}

// soma reveals the pending riddle.
func (m Model) soma() tea.Cmd {
	svc, sessionID := m.svc, m.sessionID
	return func() tea.Msg {
		ch, err := svc.Soma(context.Background(), sessionID)
		if err != nil {
			return challengeFailedMsg{Err: err}
		}
		return challengeReadyMsg{Challenge: ch}
	}
}

func (m Model) submitAnswer(text string) tea.Cmd {
	svc, sessionID, challengeID := m.svc, m.sessionID, m.challenge.ID
	return func() tea.Msg {
		res, err := svc.SubmitAnswer(context.Background(), sessionID, challengeID, text)
		if err != nil {
			return answerFailedMsg{Err: err}
		}
		return answerResultMsg{Result: res}
	}
}

func (m Model) requestHint() tea.Cmd {
	svc, challengeID := m.svc, m.challenge.ID
	return func() tea.Msg {
		hint, err := svc.Hint(context.Background(), challengeID)
		if err != nil {
			return hintFailedMsg{Err: err}
		}
		return hintReadyMsg{Hint: hint}
	}
}

func (m Model) sendRating(rating int, comment string) tea.Cmd {
	svc, challengeID := m.svc, m.challenge.ID
	return func() tea.Msg {
		return ratingDoneMsg{Err: svc.Feedback(context.Background(), challengeID, rating, comment)}
	}
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.modeTitle(), m.lives, m.score, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	v.SetContent(layout.RenderFrame(header, m.content(m.width), footer, m.width, m.height))
	return v
}

// content picks the body for the current phase.
func (m Model) content(width int) string {
	switch {
	case m.errMsg != "":
		return renderError(width, m.errMsg)
	case m.showingQuitConfirm:
		return renderQuitConfirm(width)
	case m.showingFeedback && m.result != nil:
		return m.renderFeedback(width)
	case m.loading || m.challenge == nil:
		return renderLoading(width, spinnerFrames[m.spinFrame%len(spinnerFrames)])
	default:
		return m.renderChallenge(width)
	}
}

func (m Model) keyHints() []layout.KeyHint {
	switch {
	case m.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep playing"},
		}
	case m.showingFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Next challenge"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "/hint", Description: "Hint"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

// modeTitle names the mode of the current challenge for the header.
func (m Model) modeTitle() string {
	if m.challenge == nil {
		return ""
	}
	switch m.challenge.Type {
	case game.TypeGusakuzaInit, game.TypeGusakuza:
		return "Gusakuza"
	case game.TypeStoryTranslation:
		return "Story"
	case game.TypeImageDescription:
		return "Image"
	case game.TypeThemedTranslation:
		return "Themed"
	default:
		return "Translation"
	}
}

// Run starts the interactive play program over svc and blocks until the
// player quits.
func Run(svc *session.Service) error {
	p := tea.NewProgram(New(svc))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run play program: %w", err)
	}
	return nil
}
