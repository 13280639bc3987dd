package config

import "log/slog"

// MaskSecret returns a masked version of a secret for display (e.g., "****abcd").
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// LogValue implements slog.LogValuer so a Config can be logged without
// leaking credentials.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", c.LLM.Provider),
		slog.String("model", c.LLM.Model),
		slog.String("api_key", MaskSecret(c.LLM.APIKey)),
		slog.String("base_url", c.LLM.BaseURL),
		slog.Float64("temperature", c.LLM.Temperature),
		slog.Int("max_tokens", c.LLM.MaxTokens),
		slog.Duration("llm_timeout", c.LLM.Timeout.Duration),
		slog.Int("max_rounds", c.Agent.MaxRounds),
		slog.Duration("tool_timeout", c.Agent.ToolTimeout.Duration),
		slog.Bool("web_search", c.SearchEnabled()),
		slog.String("addr", c.Server.Addr),
	)
}
