package gateway

import "context"

// CompletionRequest is a single-turn prompt for the language model.
// An empty Model selects the completer's default.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer forwards prompts to the external language model
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
