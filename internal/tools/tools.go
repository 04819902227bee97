// Package tools exposes retrieval adapters to agents as callable tools.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/agent"
)

func stringParam(name, description string) agent.Property {
	return agent.Property{Name: name, Type: "string", Description: description}
}

// decodeArgs unmarshals tool arguments and checks that required string
// fields are non-empty.
func decodeArgs(raw json.RawMessage, dst map[string]*string) error {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	for key, ptr := range dst {
		v, _ := m[key].(string)
		v = strings.TrimSpace(v)
		if v == "" {
			return fmt.Errorf("argument %q is required", key)
		}
		*ptr = v
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
