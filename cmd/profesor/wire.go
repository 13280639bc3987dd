package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikitagawde10/spanish-professor/internal/adapters/providers"
	"github.com/nikitagawde10/spanish-professor/internal/config"
	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/core/ports"
	"github.com/nikitagawde10/spanish-professor/internal/core/services"
)

// app is the assembled question pipeline.
type app struct {
	registry  *domain.ToolRegistry
	agent     *services.ReActAgentService
	questions *services.QuestionService
}

func buildApp(ctx context.Context, logger *slog.Logger, cfg config.Config) (*app, error) {
	reasoner, err := providers.Build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build model backend: %w", err)
	}
	return assemble(logger, cfg, reasoner)
}

// assemble wires everything below the backend; split out so tests can pass
// their own Reasoner.
func assemble(logger *slog.Logger, cfg config.Config, reasoner ports.Reasoner) (*app, error) {
	if !cfg.SearchEnabled() {
		logger.Warn("web search disabled: no search credential configured")
	}

	registry, err := services.NewBuiltinRegistry(cfg.Agent.ToolTimeout.Duration, services.WebSearchConfig{
		APIKey:   cfg.Search.BraveAPIKey,
		Endpoint: cfg.Search.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	agent := services.NewReActAgentService(logger, reasoner, registry, services.AgentOptions{
		MaxRounds:  cfg.Agent.MaxRounds,
		LLMTimeout: cfg.LLM.Timeout.Duration,
	})

	return &app{
		registry:  registry,
		agent:     agent,
		questions: services.NewQuestionService(logger, agent),
	}, nil
}
