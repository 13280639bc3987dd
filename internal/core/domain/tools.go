package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// Tool is a deterministic helper the orchestrator may call to ground an answer.
// Implementations return a textual note for expected "cannot help" cases;
// the error return is reserved for real execution failures.
type Tool interface {
	Name() string
	Description() string
	InputSchema() *openapi3.Schema
	Invoke(ctx context.Context, args json.RawMessage) (string, error)
}

// ArgumentNormalizer is implemented by tools that canonicalise raw
// arguments (for example lower-casing an enum value) before validation.
// It must return args unchanged when it cannot parse them.
type ArgumentNormalizer interface {
	NormalizeArguments(args json.RawMessage) json.RawMessage
}

// ToolDescriptor is the wire description of a tool handed to the reasoning backend.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ObservationKind classifies the outcome of a tool call.
type ObservationKind string

const (
	ObservationOK               ObservationKind = "ok"
	ObservationUnknownTool      ObservationKind = "unknown_tool"
	ObservationInvalidArguments ObservationKind = "invalid_arguments"
	ObservationExecutionFailed  ObservationKind = "execution_failed"
	ObservationTimeout          ObservationKind = "timeout"
)

// Observation is what the model sees after a tool call. Output is always set.
type Observation struct {
	Tool   string          `json:"tool"`
	Kind   ObservationKind `json:"kind"`
	Output string          `json:"output"`
}

// ToolRegistry holds the process-wide tool set. It is immutable after
// NewToolRegistry returns and safe for concurrent use.
type ToolRegistry struct {
	tools       map[string]Tool
	order       []string
	descriptors []ToolDescriptor
	timeout     time.Duration
}

// NewToolRegistry builds a registry from the given tools. Each call made
// through the registry is bounded by timeout (no bound when zero).
func NewToolRegistry(timeout time.Duration, tools ...Tool) (*ToolRegistry, error) {
	r := &ToolRegistry{
		tools:   make(map[string]Tool, len(tools)),
		timeout: timeout,
	}
	for _, tool := range tools {
		if tool == nil {
			return nil, errors.New("tool is nil")
		}
		name := tool.Name()
		if name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("tool %s already registered", name)
		}
		desc, err := describe(tool)
		if err != nil {
			return nil, fmt.Errorf("describe tool %s: %w", name, err)
		}
		r.tools[name] = tool
		r.order = append(r.order, name)
		r.descriptors = append(r.descriptors, desc)
	}
	return r, nil
}

func describe(tool Tool) (ToolDescriptor, error) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	if schema := tool.InputSchema(); schema != nil {
		raw, err := json.Marshal(schema)
		if err != nil {
			return ToolDescriptor{}, err
		}
		params = map[string]any{}
		if err := json.Unmarshal(raw, &params); err != nil {
			return ToolDescriptor{}, err
		}
	}
	return ToolDescriptor{
		Name:        tool.Name(),
		Description: tool.Description(),
		Parameters:  params,
	}, nil
}

// Call resolves, validates and invokes a tool. It never returns an error:
// every failure is folded into the observation so the model can react to it.
func (r *ToolRegistry) Call(ctx context.Context, name string, args json.RawMessage) Observation {
	tool, ok := r.tools[name]
	if !ok {
		// Models occasionally hallucinate close-but-wrong tool names.
		match := r.fuzzyMatch(name)
		if match == "" {
			return Observation{
				Tool:   name,
				Kind:   ObservationUnknownTool,
				Output: fmt.Sprintf("unknown tool %q; available: %s", name, strings.Join(r.Names(), ", ")),
			}
		}
		tool = r.tools[match]
		name = match
	}

	if n, ok := tool.(ArgumentNormalizer); ok {
		args = n.NormalizeArguments(args)
	}

	if err := validateArguments(tool.InputSchema(), args); err != nil {
		return Observation{
			Tool:   name,
			Kind:   ObservationInvalidArguments,
			Output: "invalid arguments: " + err.Error(),
		}
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := tool.Invoke(callCtx, args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return Observation{
				Tool:   name,
				Kind:   ObservationTimeout,
				Output: fmt.Sprintf("tool timed out after %s", r.timeout),
			}
		}
		return Observation{
			Tool:   name,
			Kind:   ObservationExecutionFailed,
			Output: "tool failed: " + err.Error(),
		}
	}
	return Observation{Tool: name, Kind: ObservationOK, Output: out}
}

func validateArguments(schema *openapi3.Schema, args json.RawMessage) error {
	if len(strings.TrimSpace(string(args))) == 0 {
		args = json.RawMessage("{}")
	}
	var value any
	if err := json.Unmarshal(args, &value); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %v", err)
	}
	if _, ok := value.(map[string]any); !ok {
		return fmt.Errorf("arguments must be a JSON object")
	}
	if schema == nil {
		return nil
	}
	if err := schema.VisitJSON(value); err != nil {
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
				return fmt.Errorf("%s: %s", strings.Join(ptr, "."), schemaErr.Reason)
			}
			return errors.New(schemaErr.Reason)
		}
		return err
	}
	return nil
}

// fuzzyMatch finds the best matching tool name for a hallucinated/wrong name.
// It uses word-overlap scoring + Levenshtein distance as tiebreaker.
// Returns empty string if no reasonable match is found.
func (r *ToolRegistry) fuzzyMatch(input string) string {
	inputWords := splitToolWords(input)

	bestName := ""
	bestScore := 0

	for _, name := range r.order {
		score := wordOverlapScore(inputWords, splitToolWords(name))
		if score > bestScore {
			bestScore = score
			bestName = name
		} else if score == bestScore && score > 0 {
			if levenshtein(input, name) < levenshtein(input, bestName) {
				bestName = name
			}
		}
	}

	if bestScore >= 1 {
		return bestName
	}
	return ""
}

func splitToolWords(name string) []string {
	parts := []string{}
	for _, p := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	}) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func wordOverlapScore(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, w := range b {
		set[w] = true
	}
	score := 0
	for _, w := range a {
		if set[w] {
			score++
		}
	}
	return score
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Get returns a tool by name
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Descriptors returns a copy of the tool descriptions in registration order.
func (r *ToolRegistry) Descriptors() []ToolDescriptor {
	return append([]ToolDescriptor(nil), r.descriptors...)
}
