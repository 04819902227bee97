package agent

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Result is the final answer of a run. Structured is set when the agent has
// an output schema and the model answered with a JSON object.
type Result struct {
	Text       string
	Structured json.RawMessage
	Steps      int
	Usage      ports.Usage

	schema *Schema
}

// String renders the result as `name=value name='value'`, properties in
// schema order, numbers bare and strings single-quoted. Without a structured
// object it returns Text unchanged.
func (r Result) String() string {
	if len(r.Structured) == 0 || r.schema == nil {
		return r.Text
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Structured, &fields); err != nil {
		return r.Text
	}

	parts := make([]string, 0, len(r.schema.Properties))
	for _, p := range r.schema.Properties {
		raw, ok := fields[p.Name]
		if !ok {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			parts = append(parts, p.Name+"='"+s+"'")
			continue
		}
		parts = append(parts, p.Name+"="+string(bytes.TrimSpace(raw)))
	}

	return strings.Join(parts, " ")
}

// jsonObject returns the JSON object in text, tolerating a markdown code
// fence around it.
func jsonObject(text string) (json.RawMessage, bool) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
		t = strings.TrimSpace(t)
	}
	if !strings.HasPrefix(t, "{") || !json.Valid([]byte(t)) {
		return nil, false
	}
	return json.RawMessage(t), true
}
