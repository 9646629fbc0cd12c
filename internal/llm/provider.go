package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for generative model interaction.
// One Provider wraps one backend model and performs no retries of its own.
type Provider interface {
	// Generate sends a prompt to the model and returns its response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema; the response Content will be the
	// validated JSON. When Schema is nil the Content is the raw text reply,
	// which for challenge generation is the pipe-delimited wire format.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation history. For single-turn generation
	// (the common case here), this contains one user message.
	Messages []Message

	// Images are inline image attachments for multimodal prompts, e.g.
	// a sample photo the model is asked to describe. Providers append
	// them to the final user message.
	Images []ImagePart

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImagePart is an inline image sent alongside the prompt text.
type ImagePart struct {
	// MIMEType is the image media type, e.g. "image/png" or "image/jpeg".
	MIMEType string

	// Data is the raw image bytes (not base64; providers encode as needed).
	Data []byte
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (used as tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "story".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. When no Schema was
	// provided, this is the raw text response.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as a plain string with surrounding
// whitespace trimmed. Convenience for unstructured (pipe-format) replies.
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Content))
}
