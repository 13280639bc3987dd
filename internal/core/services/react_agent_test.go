package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

func grammarPrompt(q string) domain.AugmentedPrompt {
	question, _ := domain.NewQuestion(q)
	return Augment(question, domain.IntentGrammar)
}

func TestReActAgent_DirectAnswer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	m := new(MockReasoner)
	m.On("Reason", mock.Anything, mock.MatchedBy(func(req domain.ReasoningRequest) bool {
		return !req.ForceFinal && len(req.Messages) == 1 && req.System == SystemPrompt && len(req.Tools) == 4
	})).Return(finalText("¡Hola!"), nil).Once()

	agent := NewReActAgentService(testLogger(), m, builtinRegistry(t), AgentOptions{})
	text, turn, err := agent.Run(context.Background(), grammarPrompt("say hello"))

	require.NoError(t, err)
	assert.Equal(t, "¡Hola!", text)
	assert.Zero(t, turn.Rounds)
	assert.False(t, turn.Forced)
	m.AssertExpectations(t)
}

func TestReActAgent_ToolRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var observed string
	reasoner := reasonerFunc(func(_ context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
		msg, ok := lastToolMessage(req)
		if !ok {
			return toolCall("conjugate_verb", `{"verb":"hablar","tense":"preterite"}`), nil
		}
		observed = msg.Content
		assert.Equal(t, "call_1", msg.ToolCallID)
		assert.Equal(t, "conjugate_verb", msg.ToolName)
		return finalText("Here you go:\n" + msg.Content), nil
	})

	agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{})
	text, turn, err := agent.Run(context.Background(), grammarPrompt("conjugate hablar in preterite"))

	require.NoError(t, err)
	assert.Contains(t, observed, "| yo | hablé |")
	assert.Contains(t, text, "| ellos/ellas/ustedes | hablaron |")
	require.Len(t, turn.Steps, 1)
	assert.Equal(t, 1, turn.Rounds)
	assert.Equal(t, domain.ObservationOK, turn.Steps[0].Observation.Kind)
}

func TestReActAgent_InvalidArgumentsAreFedBack(t *testing.T) {
	calls := 0
	reasoner := reasonerFunc(func(_ context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
		calls++
		switch calls {
		case 1:
			return toolCall("number_to_spanish", `{"n": 12000}`), nil
		case 2:
			msg, ok := lastToolMessage(req)
			require.True(t, ok)
			assert.Contains(t, msg.Content, "invalid arguments")
			return toolCall("number_to_spanish", `{"n": 12}`), nil
		default:
			msg, _ := lastToolMessage(req)
			return finalText(msg.Content), nil
		}
	})

	agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{})
	text, turn, err := agent.Run(context.Background(), grammarPrompt("12"))

	require.NoError(t, err)
	assert.Contains(t, text, "doce")
	assert.Equal(t, 2, turn.Rounds)
	assert.Equal(t, domain.ObservationInvalidArguments, turn.Steps[0].Observation.Kind)
	assert.Equal(t, domain.ObservationOK, turn.Steps[1].Observation.Kind)
}

func TestReActAgent_TerminatesWithinRoundBudget(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	for _, maxRounds := range []int{1, 2, 4, 7} {
		calls := 0
		forcedSeen := 0
		reasoner := reasonerFunc(func(_ context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
			calls++
			if req.ForceFinal {
				forcedSeen++
			}
			// Always asks for another tool, even when forced.
			d := toolCall("spanish_ipa", `{"word":"perro"}`)
			d.Text = "thinking about perro"
			return d, nil
		})

		agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{MaxRounds: maxRounds})
		text, turn, err := agent.Run(context.Background(), grammarPrompt("how does perro sound"))

		require.NoError(t, err)
		assert.Equal(t, maxRounds, turn.Rounds)
		assert.Len(t, turn.Steps, maxRounds)
		assert.True(t, turn.Forced)
		assert.Equal(t, maxRounds+1, calls, "one extra forced call")
		assert.Equal(t, 1, forcedSeen)
		assert.Equal(t, "thinking about perro", text)
	}
}

func TestReActAgent_ForcedFinishUsesLastPartialText(t *testing.T) {
	calls := 0
	reasoner := reasonerFunc(func(_ context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
		calls++
		if req.ForceFinal {
			return domain.Decision{}, nil
		}
		d := toolCall("web_search", `{"query":"guapo"}`)
		if calls == 1 {
			d.Text = "Guapo means handsome."
		}
		return d, nil
	})

	agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{MaxRounds: 2})
	text, turn, err := agent.Run(context.Background(), grammarPrompt("guapo"))

	require.NoError(t, err)
	assert.True(t, turn.Forced)
	assert.Equal(t, "Guapo means handsome.", text)
}

func TestReActAgent_BackendErrorIsFatal(t *testing.T) {
	m := new(MockReasoner)
	m.On("Reason", mock.Anything, mock.Anything).
		Return(domain.Decision{}, &domain.BackendError{Kind: domain.BackendRateLimited, Err: errors.New("429")}).Once()

	agent := NewReActAgentService(testLogger(), m, builtinRegistry(t), AgentOptions{})
	text, _, err := agent.Run(context.Background(), grammarPrompt("hola"))

	require.Error(t, err)
	assert.Empty(t, text)
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, domain.BackendRateLimited, backendErr.Kind)
	m.AssertNumberOfCalls(t, "Reason", 1)
}

func TestReActAgent_UnclassifiedErrorBecomesUnavailable(t *testing.T) {
	reasoner := reasonerFunc(func(context.Context, domain.ReasoningRequest) (domain.Decision, error) {
		return domain.Decision{}, errors.New("connection refused")
	})

	agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{})
	_, _, err := agent.Run(context.Background(), grammarPrompt("hola"))

	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, domain.BackendUnavailable, backendErr.Kind)
}

func TestReActAgent_BackendTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reasoner := reasonerFunc(func(ctx context.Context, _ domain.ReasoningRequest) (domain.Decision, error) {
		<-ctx.Done()
		return domain.Decision{}, ctx.Err()
	})

	agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{LLMTimeout: 20 * time.Millisecond})
	_, _, err := agent.Run(context.Background(), grammarPrompt("hola"))

	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, domain.BackendTimeout, backendErr.Kind)
}

func TestReActAgent_CancelledContextStops(t *testing.T) {
	m := new(MockReasoner)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agent := NewReActAgentService(testLogger(), m, builtinRegistry(t), AgentOptions{})
	_, _, err := agent.Run(ctx, grammarPrompt("hola"))

	require.ErrorIs(t, err, context.Canceled)
	m.AssertNotCalled(t, "Reason", mock.Anything, mock.Anything)
}

func TestReActAgent_UnknownToolConsumesRound(t *testing.T) {
	calls := 0
	reasoner := reasonerFunc(func(_ context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
		calls++
		if calls == 1 {
			return toolCall("translate_everything", `{}`), nil
		}
		msg, _ := lastToolMessage(req)
		return finalText(msg.Content), nil
	})

	agent := NewReActAgentService(testLogger(), reasoner, builtinRegistry(t), AgentOptions{})
	text, turn, err := agent.Run(context.Background(), grammarPrompt("hola"))

	require.NoError(t, err)
	assert.Equal(t, 1, turn.Rounds)
	assert.Equal(t, domain.ObservationUnknownTool, turn.Steps[0].Observation.Kind)
	assert.Contains(t, text, "unknown tool")
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "hola", truncateUTF8("hola", 200))
	assert.Equal(t, "hab", truncateUTF8("hablé", 3))
	// "é" occupies bytes 4 and 5; cutting at 5 must drop it whole.
	assert.Equal(t, "habl", truncateUTF8("hablé", 5))
	assert.Equal(t, "", truncateUTF8("ɲ", 1))

	ipa := strings.Repeat("t͡ʃiɲo ", 60)
	for n := 0; n <= len(ipa); n++ {
		got := truncateUTF8(ipa, n)
		require.True(t, utf8.ValidString(got), "cut at %d", n)
		require.LessOrEqual(t, len(got), n)
	}
}
