package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/okian/nyusatsu/internal/domain/model"
)

const schemaURL = "row.json"

// rowSchema describes the accepted shape of a raw row: every known field is
// text or null, and the case id is a digit string or a non-negative integer.
func rowSchema() map[string]any {
	text := map[string]any{"type": []string{"string", "null"}}
	props := make(map[string]any, len(model.Fields()))
	for _, f := range model.Fields() {
		props[f] = text
	}
	props[model.FieldCaseID] = map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string", "pattern": `^\s*\d*\s*$`},
			map[string]any{"type": "integer", "minimum": 0},
			map[string]any{"type": "null"},
		},
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func compileRowSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(rowSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// invalidInput converts a schema violation into an InvalidInputError naming
// the first offending field.
func invalidInput(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &InvalidInputError{Field: "row", Reason: err.Error()}
	}
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if i := strings.IndexByte(field, '/'); i >= 0 {
		field = field[:i]
	}
	if field == "" {
		field = "row"
	}
	return &InvalidInputError{Field: field, Reason: leaf.Message}
}
