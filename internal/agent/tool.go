package agent

import (
	"context"
	"encoding/json"

	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Tool is something the model may call during a run. Call returns the text
// handed back to the model.
type Tool interface {
	Spec() ports.ToolSpec
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

// ToolFunc adapts a plain function to Tool.
type ToolFunc struct {
	Def ports.ToolSpec
	Fn  func(ctx context.Context, args json.RawMessage) (string, error)
}

func (t ToolFunc) Spec() ports.ToolSpec { return t.Def }

func (t ToolFunc) Call(ctx context.Context, args json.RawMessage) (string, error) {
	return t.Fn(ctx, args)
}
