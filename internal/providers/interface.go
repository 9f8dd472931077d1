package providers

import (
	"context"
	"errors"
)

// ErrNoChoices reports a completion reply with an empty choice list.
var ErrNoChoices = errors.New("provider returned no choices")

// Provider defines the interface for completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete performs a non-streaming completion
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest represents a chat completion request
type CompletionRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
}

// Message represents a chat message on the provider wire
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion result
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}
