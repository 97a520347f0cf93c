// Package llm wraps the hosted model providers behind a single text
// completion interface. The agent only ever needs "system + prompt in,
// text out"; provider-specific request shapes stay here.
package llm

import "context"

// Request is one text-generation call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer is implemented by each provider client.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
