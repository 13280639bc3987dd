package domain

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a message in the reasoning history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by the backend.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one entry of the per-request reasoning history.
// Assistant messages may carry a ToolCall; tool messages carry the
// ToolCallID they answer.
type Message struct {
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	ToolCall   *ToolCall `json:"tool_call,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	ToolName   string    `json:"tool_name,omitempty"`
}

// ReasoningRequest is everything the backend sees for one Reasoning step.
type ReasoningRequest struct {
	System   string
	Messages []Message
	Tools    []ToolDescriptor
	// ForceFinal asks the backend to answer without requesting tools.
	ForceFinal bool
}

// Decision is the backend's output for one Reasoning step: either a final
// Text or exactly one ToolCall. Text may accompany a ToolCall as partial
// reasoning.
type Decision struct {
	Text     string
	ToolCall *ToolCall
}

// IsFinal reports whether the decision ends the loop.
func (d Decision) IsFinal() bool {
	return d.ToolCall == nil
}

// ReActStep represents one tool round of the reasoning loop
type ReActStep struct {
	Thought     string          `json:"thought,omitempty"`
	Action      string          `json:"action"`
	ActionInput json.RawMessage `json:"action_input"`
	Observation Observation     `json:"observation"`
	Duration    time.Duration   `json:"duration"`
}

// AgentTurn is the orchestrator state for a single request. It is never
// shared between requests.
type AgentTurn struct {
	Steps  []ReActStep `json:"steps"`
	Rounds int         `json:"rounds"`
	// Forced is set when the round budget ran out and the answer was
	// produced by a forced finish.
	Forced bool `json:"forced"`
}
