// Package types holds the shared interfaces that cross package boundaries,
// keeping perception and agent from importing each other.
package types

import (
	"context"
)

// LLMClient defines the interface for LLM interactions.
// The agent only ever uses the LLM as an untrusted text extractor; it never
// delegates control flow to it.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
