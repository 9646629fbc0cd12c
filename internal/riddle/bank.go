package riddle

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// ErrEmpty is returned by Draw when the bank holds no riddles.
var ErrEmpty = errors.New("riddle bank is empty")

// Riddle is one igisakuzo with its accepted answer.
type Riddle struct {
	Riddle string `json:"riddle"`
	Answer string `json:"answer"`
}

// Bank is a static collection of riddles loaded once at startup.
// Draw avoids repeating the most recently served riddles.
// Safe for concurrent use.
type Bank struct {
	mu      sync.Mutex
	riddles []Riddle
	rng     *rand.Rand
	recent  []int
}

// NewBank builds a bank from the given riddles. A nil rng falls back to the
// shared math/rand/v2 source.
func NewBank(riddles []Riddle, rng *rand.Rand) *Bank {
	return &Bank{riddles: riddles, rng: rng}
}

// ReadFile reads riddle/answer pairs from a JSON file.
func ReadFile(path string) ([]Riddle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read riddle file: %w", err)
	}
	var riddles []Riddle
	if err := json.Unmarshal(data, &riddles); err != nil {
		return nil, fmt.Errorf("parse riddle file: %w", err)
	}
	return riddles, nil
}

// Load reads riddle/answer pairs from a JSON file. A missing or malformed
// file degrades to an empty bank with a warning; it never fails.
func Load(path string, rng *rand.Rand, logger zerolog.Logger) *Bank {
	riddles, err := ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("could not load riddle file, bank will be empty")
		return NewBank(nil, rng)
	}

	logger.Info().Int("count", len(riddles)).Str("path", path).Msg("riddle bank loaded")
	return NewBank(riddles, rng)
}

// Len returns the number of riddles in the bank.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.riddles)
}

// Draw returns a uniformly random riddle, avoiding the most recently drawn
// half of the bank. Returns ErrEmpty when no riddles are loaded.
func (b *Bank) Draw() (Riddle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.riddles)
	if n == 0 {
		return Riddle{}, ErrEmpty
	}

	candidates := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !b.recentlyDrawn(i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		for i := 0; i < n; i++ {
			candidates = append(candidates, i)
		}
	}

	idx := candidates[b.intN(len(candidates))]

	if keep := n / 2; keep > 0 {
		b.recent = append(b.recent, idx)
		if len(b.recent) > keep {
			b.recent = b.recent[1:]
		}
	}

	return b.riddles[idx], nil
}

func (b *Bank) recentlyDrawn(idx int) bool {
	for _, r := range b.recent {
		if r == idx {
			return true
		}
	}
	return false
}

func (b *Bank) intN(n int) int {
	if b.rng == nil {
		return rand.IntN(n)
	}
	return b.rng.IntN(n)
}
