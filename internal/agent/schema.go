package agent

// Property is one field of an output schema.
type Property struct {
	Name        string
	Type        string // "string" or "number"
	Description string
}

// Schema is a flat JSON object schema whose properties keep their
// declaration order. The order drives both the JSON schema sent to the model
// and the stringified form of a Result.
type Schema struct {
	Name       string
	Properties []Property
}

func (s *Schema) Names() []string {
	out := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		out[i] = p.Name
	}
	return out
}

// JSONSchema renders s as a JSON-schema object with every property required.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	required := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[p.Name] = prop
		required = append(required, p.Name)
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// ObjectParams builds the parameters object for a tool that takes string
// arguments, all required.
func ObjectParams(args ...Property) map[string]any {
	s := Schema{Properties: args}
	m := s.JSONSchema()
	delete(m, "additionalProperties")
	return m
}
