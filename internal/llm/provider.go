// Package llm abstracts the text-generation services used by the
// classification strategies. A Provider takes a prompt and returns either
// free text or schema-validated JSON; everything above this package only
// ever sees a Request/Response pair.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for text-generation interaction.
type Provider interface {
	// Generate sends a prompt and returns the reply. When the request
	// carries a Schema the provider uses its native structured-output
	// mechanism and the response Content is validated JSON; otherwise
	// Content holds the raw text of the reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Classification is single-turn, so this
	// is one user message in practice.
	Messages []Message

	// Schema, when set, is the JSON Schema the reply must conform to.
	// When nil the reply is free text.
	Schema *Schema

	// MaxTokens is the reply token budget.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Classification prompts
	// run near zero for repeatability.
	Temperature float64
}

// Message is one turn of the conversation.
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

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "tier-screen".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// carried a Schema, raw reply text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Text returns the response content as a string. Convenience for callers
// that requested free text.
func (r *Response) Text() string { return string(r.Content) }

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
