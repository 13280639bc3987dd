package services

import (
	"time"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

// BuiltinTools returns every tool the tutor can call, in the order they are
// offered to the model.
func BuiltinTools(search WebSearchConfig) []domain.Tool {
	return []domain.Tool{
		ConjugateTool{},
		PhoneticTool{},
		NumberTool{},
		NewWebSearchTool(search),
	}
}

// NewBuiltinRegistry builds the process-wide registry of BuiltinTools.
func NewBuiltinRegistry(toolTimeout time.Duration, search WebSearchConfig) (*domain.ToolRegistry, error) {
	return domain.NewToolRegistry(toolTimeout, BuiltinTools(search)...)
}
