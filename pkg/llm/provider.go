package llm

import (
	"context"
)

// CompletionRequest carries the generation parameters in a provider-agnostic
// format. Adapters translate it into their own wire payloads.
type CompletionRequest struct {
	Model             string
	Prompt            string
	Temperature       float64
	MinP              float64
	PresencePenalty   float64
	RepetitionPenalty float64
	MaxTokens         int
}

// StreamChunk is one normalized event read from a provider stream. Exactly
// one of the fields is meaningful per chunk; Done and Cancelled are terminal.
type StreamChunk struct {
	Content   string
	Cancelled bool
	Done      bool
	Err       error
}

// StreamProvider defines the contract for any streaming completion backend.
// Implementations poll isLive between inbound chunks and emit a Cancelled
// chunk once it reports false; the returned channel is always closed after
// a terminal chunk.
type StreamProvider interface {
	Stream(ctx context.Context, req CompletionRequest, isLive func() bool) <-chan StreamChunk
}

// BuildPayload assembles the completions request body shared by all
// OpenAI-completions-style backends.
func BuildPayload(req CompletionRequest, model string, stream bool) map[string]any {
	return map[string]any{
		"model":              model,
		"prompt":             req.Prompt,
		"temperature":        req.Temperature,
		"min_p":              req.MinP,
		"presence_penalty":   req.PresencePenalty,
		"repetition_penalty": req.RepetitionPenalty,
		"max_tokens":         req.MaxTokens,
		"stream":             stream,
	}
}
