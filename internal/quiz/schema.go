package quiz

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSchema is the shape an LLM item must have before it is promoted
// to a Question.
var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{"type": "string", "minLength": 1},
		"choices": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": ChoiceCount,
			"maxItems": ChoiceCount,
		},
		"correctIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": ChoiceCount - 1},
	},
	"required": []any{"question", "choices", "correctIndex"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// itemSchema returns the compiled question schema.
func itemSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not Go
		// maps with typed values. Round-trip to normalize numbers.
		defBytes, err := json.Marshal(questionSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://quiz-question.json"
		if err := c.AddResource(url, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// validateItem checks a decoded JSON value against the question schema.
func validateItem(v any) error {
	s, err := itemSchema()
	if err != nil {
		return fmt.Errorf("compile question schema: %w", err)
	}
	return s.Validate(v)
}
