// Package config builds the immutable process configuration. Values are
// layered: defaults, then an optional TOML file, then the environment
// (with .env and .env.local filling only variables that are unset).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"

	DefaultTemperature = 0.3
	DefaultMaxTokens   = 800
	DefaultMaxRounds   = 4
	DefaultAddr        = ":8080"
)

// Duration is a time.Duration that decodes from TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Agent  AgentConfig  `toml:"agent"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
}

type LLMConfig struct {
	Provider    string   `toml:"provider"`
	APIKey      string   `toml:"api_key"`
	Model       string   `toml:"model"`
	BaseURL     string   `toml:"base_url"`
	Temperature float64  `toml:"temperature"`
	MaxTokens   int      `toml:"max_tokens"`
	Timeout     Duration `toml:"timeout"`
}

type AgentConfig struct {
	MaxRounds   int      `toml:"max_rounds"`
	ToolTimeout Duration `toml:"tool_timeout"`
}

type SearchConfig struct {
	BraveAPIKey string `toml:"brave_api_key"`
	Endpoint    string `toml:"endpoint"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    ProviderGroq,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
			Timeout:     Duration{30 * time.Second},
		},
		Agent: AgentConfig{
			MaxRounds:   DefaultMaxRounds,
			ToolTimeout: Duration{10 * time.Second},
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			RequestTimeout: Duration{60 * time.Second},
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads the configuration once. path may be empty; a path that is
// given but missing is an error. Load does not validate; call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	if err := loadDotEnvPrecedence(); err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.applyProviderDefaults()
	return cfg, nil
}

func loadDotEnvPrecedence() error {
	for _, name := range []string{".env", ".env.local"} {
		values, err := godotenv.Read(name)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if setErr := os.Setenv(k, v); setErr != nil {
					return setErr
				}
			}
		}
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// credentialEnv maps a provider to the variable holding its API key.
var credentialEnv = map[string]string{
	ProviderGroq:   "GROQ_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderGemini: "GEMINI_API_KEY",
}

func mergeEnv(cfg *Config) error {
	if v := env("PROFESOR_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if name, ok := credentialEnv[cfg.LLM.Provider]; ok {
		if v := env(name); v != "" {
			cfg.LLM.APIKey = v
		}
	}
	if v := env("GROQ_MODEL"); v != "" && cfg.LLM.Provider == ProviderGroq {
		cfg.LLM.Model = v
	}
	if v := env("PROFESOR_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := env("PROFESOR_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := env("BRAVE_SEARCH_API_KEY"); v != "" {
		cfg.Search.BraveAPIKey = v
	}
	if v := env("PROFESOR_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := env("PROFESOR_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}

	var errs []error
	if v := env("PROFESOR_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("PROFESOR_TEMPERATURE: %w", err))
		}
		cfg.LLM.Temperature = f
	}
	parseInt := func(key string, dst *int) {
		if v := env(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	parseDuration := func(key string, dst *Duration) {
		if v := env(key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	parseInt("PROFESOR_MAX_TOKENS", &cfg.LLM.MaxTokens)
	parseInt("PROFESOR_MAX_ROUNDS", &cfg.Agent.MaxRounds)
	parseDuration("PROFESOR_LLM_TIMEOUT", &cfg.LLM.Timeout)
	parseDuration("PROFESOR_TOOL_TIMEOUT", &cfg.Agent.ToolTimeout)
	parseDuration("PROFESOR_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)

	return errors.Join(errs...)
}

func (c *Config) applyProviderDefaults() {
	if c.LLM.Model != "" {
		return
	}
	switch c.LLM.Provider {
	case ProviderGroq:
		c.LLM.Model = DefaultGroqModel
	case ProviderOpenAI:
		c.LLM.Model = DefaultOpenAIModel
	case ProviderGemini:
		c.LLM.Model = DefaultGeminiModel
	}
}

// Validate reports every problem at once. A missing model credential wraps
// domain.ErrMissingCredential.
func (c Config) Validate() error {
	var errs []error
	envName, known := credentialEnv[c.LLM.Provider]
	if !known {
		errs = append(errs, fmt.Errorf("unsupported llm provider %q (want groq, openai or gemini)", c.LLM.Provider))
	} else if strings.TrimSpace(c.LLM.APIKey) == "" {
		errs = append(errs, fmt.Errorf("%w: set %s", domain.ErrMissingCredential, envName))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm model is required"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %.2f is outside 0..2", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, errors.New("max tokens must be positive"))
	}
	if c.LLM.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("llm timeout must be positive"))
	}
	if c.Agent.MaxRounds < 1 {
		errs = append(errs, errors.New("max rounds must be at least 1"))
	}
	if c.Agent.ToolTimeout.Duration <= 0 {
		errs = append(errs, errors.New("tool timeout must be positive"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	return errors.Join(errs...)
}

// SearchEnabled reports whether web_search has a credential.
func (c Config) SearchEnabled() bool {
	return strings.TrimSpace(c.Search.BraveAPIKey) != ""
}
