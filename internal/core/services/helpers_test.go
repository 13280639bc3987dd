package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockReasoner is a testify mock of ports.Reasoner.
type MockReasoner struct {
	mock.Mock
}

func (m *MockReasoner) Reason(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, domain.ReasoningRequest) domain.Decision); ok {
		return fn(ctx, req), args.Error(1)
	}
	return args.Get(0).(domain.Decision), args.Error(1)
}

func (m *MockReasoner) Model() string { return "mock-model" }

// reasonerFunc adapts a function to ports.Reasoner.
type reasonerFunc func(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error)

func (f reasonerFunc) Reason(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
	return f(ctx, req)
}

func (f reasonerFunc) Model() string { return "func-model" }

func toolCall(name string, args string) domain.Decision {
	return domain.Decision{ToolCall: &domain.ToolCall{Name: name, Arguments: json.RawMessage(args)}}
}

func finalText(text string) domain.Decision {
	return domain.Decision{Text: text}
}

func builtinRegistry(t *testing.T) *domain.ToolRegistry {
	t.Helper()
	reg, err := NewBuiltinRegistry(time.Second, WebSearchConfig{})
	require.NoError(t, err)
	return reg
}

// lastToolMessage returns the newest tool observation in the request.
func lastToolMessage(req domain.ReasoningRequest) (domain.Message, bool) {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == domain.RoleTool {
			return req.Messages[i], true
		}
	}
	return domain.Message{}, false
}
