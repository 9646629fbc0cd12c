package tui

import (
	"time"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/challenge"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/session"
)

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time

// challengeReadyMsg is sent when the next challenge has been produced.
type challengeReadyMsg struct {
	Challenge *challenge.Challenge
}

// challengeFailedMsg is sent when producing a challenge fails.
type challengeFailedMsg struct {
	Err error
}

// answerResultMsg is sent when an answer has been evaluated.
type answerResultMsg struct {
	Result *session.SubmitResult
}

// answerFailedMsg is sent when answer evaluation fails.
type answerFailedMsg struct {
	Err error
}

// hintReadyMsg is sent when a hint has been produced.
type hintReadyMsg struct {
	Hint string
}

// hintFailedMsg is sent when hint generation fails.
type hintFailedMsg struct {
	Err error
}

// ratingDoneMsg is sent when a /rate command has been stored.
type ratingDoneMsg struct {
	Err error
}
