package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikitagawde10/spanish-professor/internal/adapters/llm"
	"github.com/nikitagawde10/spanish-professor/internal/config"
	"github.com/nikitagawde10/spanish-professor/internal/core/ports"
)

// Build creates the reasoning backend from configuration. It hides the
// provider selection from callers and fails fast on a missing credential.
func Build(ctx context.Context, cfg config.Config) (ports.Reasoner, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	switch provider {
	case "", config.ProviderGroq:
		baseURL := strings.TrimSpace(cfg.LLM.BaseURL)
		if baseURL == "" {
			baseURL = llm.GroqBaseURL
		}
		return buildOpenAI(openAIConfig(cfg, baseURL))
	case config.ProviderOpenAI:
		return buildOpenAI(openAIConfig(cfg, strings.TrimSpace(cfg.LLM.BaseURL)))
	case config.ProviderGemini:
		reasoner, err := llm.NewGeminiReasoner(ctx, llm.GeminiConfig{
			APIKey:      strings.TrimSpace(cfg.LLM.APIKey),
			Model:       strings.TrimSpace(cfg.LLM.Model),
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			BaseURL:     strings.TrimSpace(cfg.LLM.BaseURL),
		})
		if err != nil {
			return nil, err
		}
		return reasoner, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

// buildOpenAI avoids handing out a typed nil inside a non-nil interface.
func buildOpenAI(cfg llm.OpenAIConfig) (ports.Reasoner, error) {
	reasoner, err := llm.NewOpenAIReasoner(cfg)
	if err != nil {
		return nil, err
	}
	return reasoner, nil
}

func openAIConfig(cfg config.Config, baseURL string) llm.OpenAIConfig {
	return llm.OpenAIConfig{
		APIKey:      strings.TrimSpace(cfg.LLM.APIKey),
		BaseURL:     baseURL,
		Model:       strings.TrimSpace(cfg.LLM.Model),
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
}
