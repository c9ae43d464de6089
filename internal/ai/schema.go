package ai

// Structured-output schemas sent alongside prompts. The gateway consumes a
// JSON-schema-shaped map and replies with matching JSON in the text field.

func insightSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":        map[string]any{"type": "string"},
				"title":       map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"confidence":  map[string]any{"type": "number"},
			},
			"required": []string{"type", "title", "description", "confidence"},
		},
	}
}

func storySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":   map[string]any{"type": "string"},
			"summary": map[string]any{"type": "string"},
			"segments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"title":       map[string]any{"type": "string"},
						"text":        map[string]any{"type": "string"},
						"audioScript": map[string]any{"type": "string"},
						"chartId":     map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

func forecastSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date":       map[string]any{"type": "string"},
				"value":      map[string]any{"type": "number"},
				"lowerBound": map[string]any{"type": "number"},
				"upperBound": map[string]any{"type": "number"},
			},
			"required": []string{"date", "value", "lowerBound", "upperBound"},
		},
	}
}
