package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/linguistics"
)

func withDescription(s *openapi3.Schema, desc string) *openapi3.Schema {
	s.Description = desc
	return s
}

func toJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(raw), nil
}

// ConjugateTool exposes linguistics.Conjugate.
type ConjugateTool struct{}

var (
	_ domain.Tool               = ConjugateTool{}
	_ domain.ArgumentNormalizer = ConjugateTool{}
)

func (ConjugateTool) Name() string { return "conjugate_verb" }

func (ConjugateTool) Description() string {
	return "Conjugate a Spanish infinitive (-ar/-er/-ir) in the present or preterite tense. " +
		"Returns a markdown table with the six persons, or a JSON note when the verb is not supported."
}

func (ConjugateTool) InputSchema() *openapi3.Schema {
	tenses := make([]any, 0, 2)
	for _, t := range linguistics.SupportedTenses() {
		tenses = append(tenses, t)
	}
	return openapi3.NewObjectSchema().
		WithProperty("verb", withDescription(openapi3.NewStringSchema().WithMinLength(1), "Infinitive, e.g. hablar")).
		WithProperty("tense", withDescription(openapi3.NewStringSchema().WithEnum(tenses...), "Tense to conjugate, lowercase")).
		WithRequired([]string{"verb", "tense"})
}

// NormalizeArguments lower-cases and trims the tense so "Preterite" passes
// the enum check.
func (ConjugateTool) NormalizeArguments(args json.RawMessage) json.RawMessage {
	var in map[string]any
	if err := json.Unmarshal(args, &in); err != nil {
		return args
	}
	tense, ok := in["tense"].(string)
	if !ok {
		return args
	}
	in["tense"] = strings.ToLower(strings.TrimSpace(tense))
	out, err := json.Marshal(in)
	if err != nil {
		return args
	}
	return out
}

func (ConjugateTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Verb  string `json:"verb"`
		Tense string `json:"tense"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	c := linguistics.Conjugate(in.Verb, in.Tense)
	if c.Note != "" {
		return toJSON(map[string]string{"note": c.Note})
	}
	return c.Markdown(), nil
}

// PhoneticTool exposes linguistics.ToApproximateIPA.
type PhoneticTool struct{}

var _ domain.Tool = PhoneticTool{}

func (PhoneticTool) Name() string { return "spanish_ipa" }

func (PhoneticTool) Description() string {
	return "Approximate IPA transcription of a Spanish word (no stress marks). Returns JSON {ipa, note?}."
}

func (PhoneticTool) InputSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("word", withDescription(openapi3.NewStringSchema(), "A single Spanish word")).
		WithRequired([]string{"word"})
}

func (PhoneticTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}
	return toJSON(linguistics.ToApproximateIPA(in.Word))
}

// NumberTool exposes linguistics.NumberToSpanish.
type NumberTool struct{}

var _ domain.Tool = NumberTool{}

func (NumberTool) Name() string { return "number_to_spanish" }

func (NumberTool) Description() string {
	return "Convert an integer 0-9999 into Spanish words and return pieces for a small table. " +
		"Returns JSON {spanish, parts[{part, meaning}]}."
}

func (NumberTool) InputSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("n", withDescription(
			openapi3.NewIntegerSchema().WithMin(linguistics.MinNumber).WithMax(linguistics.MaxNumber),
			"Integer between 0 and 9999",
		)).
		WithRequired([]string{"n"})
}

func (NumberTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	// float64 so that 12.0 decodes; the schema already guarantees an integer.
	var in struct {
		N float64 `json:"n"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	words, err := linguistics.NumberToSpanish(int(in.N))
	if err != nil {
		return "", err
	}
	return toJSON(words)
}
