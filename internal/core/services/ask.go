package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

// AskResult is the outcome of one question: the boundary response plus the
// data gathered on the way, for logs and the CLI.
type AskResult struct {
	Status   int                   `json:"status"`
	Response domain.AnswerResponse `json:"response"`
	Tag      domain.IntentTag      `json:"tag,omitempty"`
	Turn     domain.AgentTurn      `json:"turn"`
}

// QuestionService wires Classify, Augment, the agent and Assemble together.
type QuestionService struct {
	logger *slog.Logger
	agent  *ReActAgentService
}

func NewQuestionService(logger *slog.Logger, agent *ReActAgentService) *QuestionService {
	return &QuestionService{logger: logger, agent: agent}
}

// Ask answers raw. An empty question is rejected before the agent runs.
func (s *QuestionService) Ask(ctx context.Context, raw string) AskResult {
	q, err := domain.NewQuestion(raw)
	if err != nil {
		status, resp := Assemble("", err)
		return AskResult{Status: status, Response: resp}
	}

	start := time.Now()
	tag := Classify(q.String())
	prompt := Augment(q, tag)

	text, turn, err := s.agent.Run(ctx, prompt)
	status, resp := Assemble(text, err)

	s.logger.Info("question answered",
		"tag", string(tag),
		"status", status,
		"rounds", turn.Rounds,
		"forced", turn.Forced,
		"duration", time.Since(start),
	)
	return AskResult{Status: status, Response: resp, Tag: tag, Turn: turn}
}
