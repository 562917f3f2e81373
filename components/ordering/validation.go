package ordering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldValidator validates item fields against the collection schema.
type FieldValidator interface {
	Validate(def CollectionDefinition, fields map[string]any) error
}

// JSONSchemaValidator compiles collection schemas and validates field maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided fields satisfy the collection schema.
func (v *JSONSchemaValidator) Validate(def CollectionDefinition, fields map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	payload, err := normalizeJSON(fields)
	if err != nil {
		return fmt.Errorf("%w: normalize fields for %s: %v", ErrInvalidFields, def.Code, err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFields, def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def CollectionDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("ordering: marshal schema %s: %w", def.Code, err)
	}
	compiled, err := compileSchema(def.Code+".json", data)
	if err != nil {
		return nil, fmt.Errorf("ordering: schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// positionsSchema describes the body of PUT /<collection>/positions/update.
const positionsSchema = `{
  "type": "object",
  "required": ["positions"],
  "properties": {
    "positions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "position"],
        "properties": {
          "id": {"type": ["string", "integer"]},
          "position": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`

var (
	positionsSchemaOnce     sync.Once
	positionsSchemaCompiled *jsonschema.Schema
	positionsSchemaErr      error
)

// ValidatePositionsPayload checks a raw reorder request body before decoding.
func ValidatePositionsPayload(body []byte) error {
	positionsSchemaOnce.Do(func() {
		positionsSchemaCompiled, positionsSchemaErr = compileSchema("positions.json", []byte(positionsSchema))
	})
	if positionsSchemaErr != nil {
		return positionsSchemaErr
	}
	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	if err := positionsSchemaCompiled.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return nil
}

// DecodePositions validates and decodes a reorder body. Numeric ids are
// converted to strings.
func DecodePositions(body []byte) ([]PositionUpdate, error) {
	if err := ValidatePositionsPayload(body); err != nil {
		return nil, err
	}
	var raw struct {
		Positions []struct {
			ID       any `json:"id"`
			Position int `json:"position"`
		} `json:"positions"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	updates := make([]PositionUpdate, len(raw.Positions))
	for i, p := range raw.Positions {
		id, err := normalizeID(p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
		}
		updates[i] = PositionUpdate{ID: id, Position: p.Position}
	}
	return updates, nil
}

func compileSchema(name string, data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

func normalizeJSON(fields map[string]any) (map[string]any, error) {
	if fields == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
