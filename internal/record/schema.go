package record

// Schema is the JSON Schema a record sidecar must satisfy. Only shape is
// checked here; field semantics belong to expediente.Validate.
var Schema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"properties": map[string]any{
		"numero":      map[string]any{"type": []any{"string", "number", "null"}},
		"fechaInicio": map[string]any{"type": []any{"string", "null"}},
	},
	"additionalProperties": true,
}
