package ports

import (
	"context"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

// Reasoner abstracts the language-model backend (Groq, OpenAI, Gemini, ...).
type Reasoner interface {
	// Reason runs one Reasoning step over the history so far and returns
	// either a final text or a single tool call. Failures must be returned
	// as *domain.BackendError.
	Reason(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error)

	// Model returns the configured model identifier, for logs.
	Model() string
}
