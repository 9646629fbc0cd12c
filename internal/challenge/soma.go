package challenge

import (
	"strings"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
)

// Soma converts the pending riddle announcement into a playable riddle
// challenge and clears it from the state. The announcement's target carries
// "riddle|answer"; the challenge exposes the riddle and keeps the answer as
// the expected text. ErrNoPendingRiddle when no announcement preceded the
// call.
func Soma(st *game.State) (*Challenge, error) {
	if st.PendingRiddle == "" {
		return nil, ErrNoPendingRiddle
	}

	parts := strings.SplitN(st.PendingRiddle, "|", 2)
	if len(parts) < 2 {
		st.PendingRiddle = ""
		return nil, ErrNoPendingRiddle
	}

	st.PendingRiddle = ""
	return &Challenge{
		Type:       game.TypeGusakuza,
		SourceText: strings.TrimSpace(parts[0]),
		TargetText: strings.TrimSpace(parts[1]),
		Context:    "Igisakuzo",
		Difficulty: 1,
	}, nil
}
