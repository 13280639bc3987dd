package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/core/ports"
)

// DefaultMaxRounds bounds the number of tool calls per question.
const DefaultMaxRounds = 4

const maxLoggedObservation = 200

// AgentOptions configures a ReActAgentService.
type AgentOptions struct {
	// System is the system prompt. Defaults to SystemPrompt.
	System string
	// MaxRounds is the tool-call budget. Values < 1 use DefaultMaxRounds.
	MaxRounds int
	// LLMTimeout bounds each backend call. Zero means no extra bound.
	LLMTimeout time.Duration
}

// ReActAgentService runs the Reasoning -> ToolCall -> Observing loop for a
// single question. It holds no per-request state and can be shared.
type ReActAgentService struct {
	logger     *slog.Logger
	reasoner   ports.Reasoner
	tools      *domain.ToolRegistry
	system     string
	maxRounds  int
	llmTimeout time.Duration
}

// NewReActAgentService creates a new ReAct-enabled agent
func NewReActAgentService(
	logger *slog.Logger,
	reasoner ports.Reasoner,
	tools *domain.ToolRegistry,
	opts AgentOptions,
) *ReActAgentService {
	if opts.System == "" {
		opts.System = SystemPrompt
	}
	if opts.MaxRounds < 1 {
		opts.MaxRounds = DefaultMaxRounds
	}
	return &ReActAgentService{
		logger:     logger,
		reasoner:   reasoner,
		tools:      tools,
		system:     opts.System,
		maxRounds:  opts.MaxRounds,
		llmTimeout: opts.LLMTimeout,
	}
}

// MaxRounds returns the configured tool-call budget.
func (s *ReActAgentService) MaxRounds() int { return s.maxRounds }

// Run answers one augmented question. The returned text may be empty; the
// assembler decides how to present that. A non-nil error is either a
// *domain.BackendError or a context error and means no answer exists.
func (s *ReActAgentService) Run(ctx context.Context, prompt domain.AugmentedPrompt) (string, domain.AgentTurn, error) {
	s.logger.Info("starting ReAct loop", "tag", string(prompt.Tag), "model", s.reasoner.Model())

	var (
		turn        domain.AgentTurn
		partial     string
		descriptors = s.tools.Descriptors()
		history     = []domain.Message{{Role: domain.RoleUser, Content: prompt.Text}}
	)

	for {
		if err := ctx.Err(); err != nil {
			return "", turn, fmt.Errorf("agent run: %w", err)
		}

		force := turn.Rounds >= s.maxRounds
		if force {
			s.logger.Warn("round budget exhausted, forcing final answer", "rounds", turn.Rounds)
		}

		decision, err := s.reason(ctx, domain.ReasoningRequest{
			System:     s.system,
			Messages:   history,
			Tools:      descriptors,
			ForceFinal: force,
		})
		if err != nil {
			s.logger.Error("reasoning step failed", "round", turn.Rounds, "error", err)
			return "", turn, err
		}
		if strings.TrimSpace(decision.Text) != "" {
			partial = decision.Text
		}

		if force {
			// A tool call here is ignored; the budget is spent.
			turn.Forced = true
			text := decision.Text
			if strings.TrimSpace(text) == "" {
				text = partial
			}
			return text, turn, nil
		}

		if decision.IsFinal() {
			s.logger.Info("final answer reached", "rounds", turn.Rounds, "chars", len(decision.Text))
			return decision.Text, turn, nil
		}

		call := *decision.ToolCall
		if call.ID == "" {
			call.ID = fmt.Sprintf("call_%d", turn.Rounds+1)
		}

		s.logger.Info("executing tool", "tool", call.Name, "round", turn.Rounds+1)
		start := time.Now()
		obs := s.tools.Call(ctx, call.Name, call.Arguments)
		elapsed := time.Since(start)
		turn.Rounds++

		s.logger.Info("tool executed",
			"tool", obs.Tool,
			"kind", string(obs.Kind),
			"duration", elapsed,
			"observation", truncateUTF8(obs.Output, maxLoggedObservation),
		)

		turn.Steps = append(turn.Steps, domain.ReActStep{
			Thought:     strings.TrimSpace(decision.Text),
			Action:      call.Name,
			ActionInput: call.Arguments,
			Observation: obs,
			Duration:    elapsed,
		})

		history = append(history,
			domain.Message{Role: domain.RoleAssistant, Content: decision.Text, ToolCall: &call},
			domain.Message{Role: domain.RoleTool, Content: obs.Output, ToolCallID: call.ID, ToolName: call.Name},
		)
	}
}

// reason performs one backend call under the per-call timeout and makes
// sure every failure surfaces as a *domain.BackendError.
func (s *ReActAgentService) reason(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
	callCtx := ctx
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	decision, err := s.reasoner.Reason(callCtx, req)
	if err == nil {
		return decision, nil
	}

	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		return domain.Decision{}, err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return domain.Decision{}, &domain.BackendError{Kind: domain.BackendTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return domain.Decision{}, fmt.Errorf("agent run: %w", err)
	}
	return domain.Decision{}, &domain.BackendError{Kind: domain.BackendUnavailable, Err: err}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
