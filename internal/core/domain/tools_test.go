package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name   string
	schema *openapi3.Schema
	invoke func(ctx context.Context, args json.RawMessage) (string, error)
}

func (f fakeTool) Name() string                  { return f.name }
func (f fakeTool) Description() string           { return "fake " + f.name }
func (f fakeTool) InputSchema() *openapi3.Schema { return f.schema }
func (f fakeTool) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	if f.invoke == nil {
		return "ok:" + string(args), nil
	}
	return f.invoke(ctx, args)
}

func wordSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("word", openapi3.NewStringSchema().WithMinLength(1)).
		WithRequired([]string{"word"})
}

func TestNewToolRegistry_Rejects(t *testing.T) {
	_, err := NewToolRegistry(0, fakeTool{name: ""})
	require.Error(t, err)

	_, err = NewToolRegistry(0, fakeTool{name: "a"}, fakeTool{name: "a"})
	require.ErrorContains(t, err, "already registered")

	_, err = NewToolRegistry(0, nil)
	require.Error(t, err)
}

func TestToolRegistry_Descriptors(t *testing.T) {
	reg, err := NewToolRegistry(0, fakeTool{name: "lookup_word", schema: wordSchema()}, fakeTool{name: "noop"})
	require.NoError(t, err)

	descs := reg.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "lookup_word", descs[0].Name)
	assert.Equal(t, "fake lookup_word", descs[0].Description)
	assert.Equal(t, []any{"word"}, descs[0].Parameters["required"])
	assert.Equal(t, "object", descs[1].Parameters["type"])

	// Mutating the copy must not touch the registry.
	descs[0].Name = "changed"
	assert.Equal(t, "lookup_word", reg.Descriptors()[0].Name)
}

func TestToolRegistry_Call(t *testing.T) {
	failing := fakeTool{name: "explode", invoke: func(context.Context, json.RawMessage) (string, error) {
		return "", errors.New("kaboom")
	}}
	reg, err := NewToolRegistry(time.Second, fakeTool{name: "lookup_word", schema: wordSchema()}, failing)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		obs := reg.Call(ctx, "lookup_word", json.RawMessage(`{"word":"gato"}`))
		assert.Equal(t, ObservationOK, obs.Kind)
		assert.Equal(t, `ok:{"word":"gato"}`, obs.Output)
	})

	t.Run("schema violation", func(t *testing.T) {
		obs := reg.Call(ctx, "lookup_word", json.RawMessage(`{"word":""}`))
		assert.Equal(t, ObservationInvalidArguments, obs.Kind)
		assert.Contains(t, obs.Output, "invalid arguments: ")
		assert.Contains(t, obs.Output, "word")
	})

	t.Run("not json", func(t *testing.T) {
		obs := reg.Call(ctx, "lookup_word", json.RawMessage(`{word:`))
		assert.Equal(t, ObservationInvalidArguments, obs.Kind)
	})

	t.Run("not an object", func(t *testing.T) {
		obs := reg.Call(ctx, "lookup_word", json.RawMessage(`["gato"]`))
		assert.Equal(t, ObservationInvalidArguments, obs.Kind)
		assert.Equal(t, "invalid arguments: arguments must be a JSON object", obs.Output)
	})

	t.Run("unknown", func(t *testing.T) {
		obs := reg.Call(ctx, "fly", json.RawMessage(`{}`))
		assert.Equal(t, ObservationUnknownTool, obs.Kind)
		assert.Equal(t, `unknown tool "fly"; available: explode, lookup_word`, obs.Output)
	})

	t.Run("fuzzy", func(t *testing.T) {
		obs := reg.Call(ctx, "word_lookup", json.RawMessage(`{"word":"gato"}`))
		assert.Equal(t, ObservationOK, obs.Kind)
		assert.Equal(t, "lookup_word", obs.Tool)
	})

	t.Run("execution failure", func(t *testing.T) {
		obs := reg.Call(ctx, "explode", nil)
		assert.Equal(t, ObservationExecutionFailed, obs.Kind)
		assert.Equal(t, "tool failed: kaboom", obs.Output)
	})
}

type upperTool struct{ fakeTool }

func (upperTool) NormalizeArguments(json.RawMessage) json.RawMessage {
	return json.RawMessage(`{"word":"normalized"}`)
}

func TestToolRegistry_CallNormalizesBeforeValidation(t *testing.T) {
	reg, err := NewToolRegistry(0, upperTool{fakeTool{name: "lookup_word", schema: wordSchema()}})
	require.NoError(t, err)

	// The raw arguments would fail minLength; the normalized ones pass.
	obs := reg.Call(context.Background(), "lookup_word", json.RawMessage(`{"word":""}`))
	assert.Equal(t, ObservationOK, obs.Kind, obs.Output)
	assert.Equal(t, `ok:{"word":"normalized"}`, obs.Output)
}

func TestToolRegistry_CallTimeout(t *testing.T) {
	slow := fakeTool{name: "slow", invoke: func(ctx context.Context, _ json.RawMessage) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	reg, err := NewToolRegistry(10*time.Millisecond, slow)
	require.NoError(t, err)

	obs := reg.Call(context.Background(), "slow", json.RawMessage(`{}`))
	assert.Equal(t, ObservationTimeout, obs.Kind)
	assert.Equal(t, "tool timed out after 10ms", obs.Output)
}

func TestFuzzyMatch(t *testing.T) {
	reg, err := NewToolRegistry(0,
		fakeTool{name: "conjugate_verb"},
		fakeTool{name: "spanish_ipa"},
		fakeTool{name: "number_to_spanish"},
	)
	require.NoError(t, err)

	assert.Equal(t, "conjugate_verb", reg.fuzzyMatch("verb_conjugate"))
	assert.Equal(t, "spanish_ipa", reg.fuzzyMatch("ipa"))
	assert.Equal(t, "number_to_spanish", reg.fuzzyMatch("number-to-words"))
	assert.Equal(t, "", reg.fuzzyMatch("translate"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 1, levenshtein("kitten", "sitten"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}
