package schema

// ToJSONSchema converts the schema to JSON Schema format for providers with
// native structured output support.
func (s Schema) ToJSONSchema() map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0)

	for _, field := range s.Fields {
		properties[field.Name] = fieldToJSONSchema(field)
		if field.Required {
			required = append(required, field.Name)
		}
	}

	out := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false, // Required for strict mode (OpenAI)
	}

	if len(required) > 0 {
		out["required"] = required
	}

	if s.Description != "" {
		out["description"] = s.Description
	}

	return out
}

func fieldToJSONSchema(f Field) map[string]any {
	out := map[string]any{
		"type": string(f.Type),
	}

	if f.Description != "" {
		out["description"] = f.Description
	}

	if len(f.Examples) > 0 {
		out["examples"] = f.Examples
	}

	if f.Type == TypeArray && f.Items != nil {
		out["items"] = fieldToJSONSchema(*f.Items)
	}

	if f.Type == TypeObject && len(f.Properties) > 0 {
		props := make(map[string]any)
		req := make([]string, 0)
		for _, p := range f.Properties {
			props[p.Name] = fieldToJSONSchema(p)
			if p.Required {
				req = append(req, p.Name)
			}
		}
		out["properties"] = props
		out["additionalProperties"] = false
		if len(req) > 0 {
			out["required"] = req
		}
	}

	return out
}
