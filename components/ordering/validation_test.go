package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidatorRejectsInvalidFields(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := CollectionDefinition{
		Code: "hero-banners",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"link_url"},
			"properties": map[string]any{
				"link_url": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
	if err := validator.Validate(def, map[string]any{"link_url": "/sale"}); err != nil {
		t.Fatalf("expected valid fields, got %v", err)
	}
	if err := validator.Validate(def, map[string]any{}); err == nil {
		t.Fatalf("expected validation error for missing link_url")
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}
}

func TestJSONSchemaValidatorSkipsSchemaless(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(CollectionDefinition{Code: "free"}, map[string]any{"any": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(validator.compiled) != 0 {
		t.Fatalf("expected no compiled schema")
	}
}

func TestDecodePositions(t *testing.T) {
	updates, err := DecodePositions([]byte(`{"positions":[{"id":"b","position":1},{"id":7,"position":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, []PositionUpdate{{ID: "b", Position: 1}, {ID: "7", Position: 2}}, updates)
}

func TestDecodePositionsUnescapesStringIDs(t *testing.T) {
	updates, err := DecodePositions([]byte(`{"positions":[{"id":"caf\u00e9","position":1},{"id":"a\"b","position":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, []PositionUpdate{{ID: "café", Position: 1}, {ID: `a"b`, Position: 2}}, updates)
}

func TestDecodePositionsRejectsMalformedBodies(t *testing.T) {
	bodies := []string{
		`not json`,
		`{}`,
		`{"positions":[]}`,
		`{"positions":[{"id":"a"}]}`,
		`{"positions":[{"id":"a","position":0}]}`,
		`{"positions":[{"id":"a","position":1.5}]}`,
		`{"positions":[{"id":true,"position":1}]}`,
	}
	for _, body := range bodies {
		_, err := DecodePositions([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidBatch, body)
	}
}
