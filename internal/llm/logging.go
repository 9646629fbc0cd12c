package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/store"
	"github.com/rs/zerolog/log"
)

// LoggingProvider is a decorator that records every model request as an
// event row, one per failover attempt.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.LLMEventRepo
}

// WithLogging wraps a Provider with event recording. providerName is the
// backend name ("gemini", "openai", ...) stored alongside the model ID.
func WithLogging(p Provider, providerName string, repo store.LLMEventRepo) Provider {
	return &LoggingProvider{inner: p, provider: providerName, events: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Record the event but don't fail the request if recording fails.
	if logErr := l.events.Append(ctx, data); logErr != nil {
		log.Warn().Err(logErr).Msg("failed to record model event")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the model request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	for _, img := range req.Images {
		b.WriteString(fmt.Sprintf("[image: %s, %d bytes]\n", img.MIMEType, len(img.Data)))
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
