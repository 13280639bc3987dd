package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/core/ports"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIConfig configures an OpenAI-compatible chat completions backend.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	// HTTPClient is optional; tests inject httptest clients here.
	HTTPClient *http.Client
}

// OpenAIReasoner implements ports.Reasoner over any OpenAI-compatible API
// with native tool calling: OpenAI, Groq, Together, local /v1 servers.
type OpenAIReasoner struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

var _ ports.Reasoner = (*OpenAIReasoner)(nil)

// NewOpenAIReasoner creates a new OpenAI-compatible reasoner. The SDK's
// automatic retries are disabled: a failed call is reported, never repeated.
func NewOpenAIReasoner(cfg OpenAIConfig) (*OpenAIReasoner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai reasoner: %w", domain.ErrMissingCredential)
	}
	if cfg.Model == "" {
		return nil, errors.New("openai reasoner: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIReasoner{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
	}, nil
}

func (r *OpenAIReasoner) Model() string { return r.model }

// Reason sends the history to chat completions and maps the first choice
// to a Decision.
func (r *OpenAIReasoner) Reason(ctx context.Context, req domain.ReasoningRequest) (domain.Decision, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(r.model),
		Messages:    openAIMessages(req),
		Temperature: openai.Float(r.temperature),
	}
	if r.maxTokens > 0 {
		params.MaxTokens = openai.Int(r.maxTokens)
	}
	if len(req.Tools) > 0 {
		params.Tools = openAITools(req.Tools)
		params.ParallelToolCalls = openai.Bool(false)
		if req.ForceFinal {
			params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("none")}
		}
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Decision{}, classifyOpenAIError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Decision{}, &domain.BackendError{Kind: domain.BackendMalformed, Err: errors.New("empty choices")}
	}

	msg := resp.Choices[0].Message
	decision := domain.Decision{Text: msg.Content}
	if len(msg.ToolCalls) > 0 && !req.ForceFinal {
		tc := msg.ToolCalls[0]
		decision.ToolCall = &domain.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		}
	}
	return decision, nil
}

func openAIMessages(req domain.ReasoningRequest) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleAssistant:
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if m.Content != "" {
				assistant.Content.OfString = openai.String(m.Content)
			}
			if m.ToolCall != nil {
				assistant.ToolCalls = []openai.ChatCompletionMessageToolCallParam{{
					ID: m.ToolCall.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      m.ToolCall.Name,
						Arguments: string(m.ToolCall.Arguments),
					},
				}}
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case domain.RoleTool:
			msgs = append(msgs, openai.ToolMessage(m.Content, m.ToolCallID))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return msgs
}

func openAITools(descs []domain.ToolDescriptor) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(descs))
	for _, d := range descs {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openai.String(d.Description),
				Parameters:  openai.FunctionParameters(d.Parameters),
			},
		})
	}
	return tools
}

func classifyOpenAIError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.BackendError{Kind: domain.BackendTimeout, Err: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		// The SDK error message embeds the raw response body; keep the status only.
		cause := fmt.Errorf("status %d", apiErr.StatusCode)
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return &domain.BackendError{Kind: domain.BackendRateLimited, Err: cause}
		}
		return &domain.BackendError{Kind: domain.BackendUnavailable, Err: cause}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &domain.BackendError{Kind: domain.BackendMalformed, Err: err}
	}
	return &domain.BackendError{Kind: domain.BackendUnavailable, Err: err}
}
