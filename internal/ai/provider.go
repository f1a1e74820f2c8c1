package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params tune one generation call.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Provider is the remote text-generation call. Implementations return
// errors from the taxonomy in errors.go so callers can pick retry or
// fallback paths.
type Provider interface {
	Generate(ctx context.Context, messages []Message, params Params) (string, error)
}
