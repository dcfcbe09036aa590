package settings

// DefaultSchema describes the keys the block reads. Unknown keys are kept
// because the whole document is handed to the client as expander sections
// config.
func DefaultSchema() map[string]any {
	flag := map[string]any{
		"anyOf": []any{
			map[string]any{"type": "boolean"},
			map[string]any{"type": "integer", "enum": []any{0, 1}},
		},
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			KeyBackend:               map[string]any{"type": "string", "minLength": 1},
			KeyDisableSearchBox:      flag,
			KeyDisableSpotsAvailable: flag,
		},
		"additionalProperties": true,
	}
}
