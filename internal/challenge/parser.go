package challenge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformed reports a model reply that did not follow the pipe format.
var ErrMalformed = errors.New("malformed model reply")

// markdownMarkers matches the heading and emphasis markers models sometimes
// wrap around a reply despite being told not to.
var markdownMarkers = regexp.MustCompile(`#+\s*|\*+\s*`)

// Parsed is a decoded pipe-delimited model reply.
type Parsed struct {
	Source string
	Target string
}

// ParseResponse strips markdown markers from raw, splits on "|" and returns
// the first two fields trimmed. Replies with fewer than two fields are
// rejected with ErrMalformed.
func ParseResponse(raw string) (Parsed, error) {
	cleaned := strings.TrimSpace(markdownMarkers.ReplaceAllString(raw, ""))
	parts := strings.Split(cleaned, "|")
	if len(parts) < 2 {
		return Parsed{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	return Parsed{
		Source: strings.TrimSpace(parts[0]),
		Target: strings.TrimSpace(parts[1]),
	}, nil
}
