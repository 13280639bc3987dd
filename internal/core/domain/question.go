package domain

import "strings"

// Question is the raw user text, already trimmed and known to be non-empty.
type Question string

// NewQuestion trims raw and rejects empty input.
func NewQuestion(raw string) (Question, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", NewInputError("Missing question")
	}
	return Question(q), nil
}

func (q Question) String() string { return string(q) }

// IntentTag is the coarse category of a question.
type IntentTag string

const (
	IntentGrammar       IntentTag = "GRAMMAR"
	IntentPronunciation IntentTag = "PRONUNCIATION"
	IntentNumber        IntentTag = "NUMBER"
	IntentWordLookup    IntentTag = "WORD_LOOKUP"
	IntentGeneral       IntentTag = "GENERAL"
)

// AugmentedPrompt is a question rewritten with tag-specific instructions.
type AugmentedPrompt struct {
	Tag         IntentTag `json:"tag"`
	Instruction string    `json:"instruction,omitempty"`
	Question    Question  `json:"question"`
	// Text is what the orchestrator sends as the user message.
	Text string `json:"text"`
}

// AnswerResponse is the boundary contract: exactly one of Answer or Error is set.
type AnswerResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}
