package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/core/ports"
)

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	// BaseURL overrides the Gemini API endpoint (tests).
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiReasoner implements ports.Reasoner with Gemini function calling.
type GeminiReasoner struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

var _ ports.Reasoner = (*GeminiReasoner)(nil)

// NewGeminiReasoner creates a Gemini API client.
func NewGeminiReasoner(ctx context.Context, cfg GeminiConfig) (*GeminiReasoner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini reasoner: %w", domain.ErrMissingCredential)
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini reasoner: model is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiReasoner{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

func (g *GeminiReasoner) Model() string { return g.model }

func (g *GeminiReasoner) Reason(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
	contents := geminiContents(req.Messages)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = g.maxTokens
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:                 t.Name,
				Description:          t.Description,
				ParametersJsonSchema: t.Parameters,
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		if req.ForceFinal {
			config.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeNone},
			}
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return domain.Decision{}, classifyGeminiError(ctx, err)
	}
	if len(resp.Candidates) == 0 {
		return domain.Decision{}, &domain.BackendError{Kind: domain.BackendMalformed, Err: errors.New("no candidates")}
	}

	decision := domain.Decision{Text: resp.Text()}
	if calls := resp.FunctionCalls(); len(calls) > 0 && !req.ForceFinal {
		args, err := json.Marshal(calls[0].Args)
		if err != nil {
			return domain.Decision{}, &domain.BackendError{Kind: domain.BackendMalformed, Err: err}
		}
		decision.ToolCall = &domain.ToolCall{
			ID:        calls[0].ID,
			Name:      calls[0].Name,
			Arguments: args,
		}
	}
	return decision, nil
}

func geminiContents(history []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case domain.RoleAssistant:
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, genai.NewPartFromText(m.Content))
			}
			if m.ToolCall != nil {
				args := map[string]any{}
				// Arguments the model produced may be invalid; replay them empty.
				_ = json.Unmarshal(m.ToolCall.Arguments, &args)
				part := genai.NewPartFromFunctionCall(m.ToolCall.Name, args)
				part.FunctionCall.ID = m.ToolCall.ID
				parts = append(parts, part)
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case domain.RoleTool:
			part := genai.NewPartFromFunctionResponse(m.ToolName, map[string]any{"output": m.Content})
			part.FunctionResponse.ID = m.ToolCallID
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents
}

func classifyGeminiError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.BackendError{Kind: domain.BackendTimeout, Err: err}
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code != 0 {
		cause := fmt.Errorf("status %d", code)
		if code == http.StatusTooManyRequests {
			return &domain.BackendError{Kind: domain.BackendRateLimited, Err: cause}
		}
		return &domain.BackendError{Kind: domain.BackendUnavailable, Err: cause}
	}
	return &domain.BackendError{Kind: domain.BackendUnavailable, Err: err}
}
