package llm

import "context"

type LLM interface {
	// Generate generates text based on the provided prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
