package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

const defaultMaxSteps = 5

// Agent binds instructions, an optional output schema and a toolset to a chat
// model. It is immutable after New and safe for concurrent Run calls.
type Agent struct {
	name         string
	model        ports.ChatModel
	modelName    string
	instructions string
	schema       *Schema
	maxSteps     int

	tools map[string]Tool
	specs []ports.ToolSpec
}

type Option func(*Agent)

// WithModelName overrides the provider's default model.
func WithModelName(name string) Option {
	return func(a *Agent) { a.modelName = name }
}

// WithSchema asks the model for a JSON object matching s.
func WithSchema(s *Schema) Option {
	return func(a *Agent) { a.schema = s }
}

func WithTools(tools ...Tool) Option {
	return func(a *Agent) {
		for _, t := range tools {
			spec := t.Spec()
			if _, dup := a.tools[spec.Name]; dup {
				continue
			}
			a.tools[spec.Name] = t
			a.specs = append(a.specs, spec)
		}
	}
}

func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithExtraInstructions appends text to the system prompt.
func WithExtraInstructions(text string) Option {
	return func(a *Agent) {
		if text = strings.TrimSpace(text); text != "" {
			a.instructions += "\n\n" + text
		}
	}
}

func New(name string, model ports.ChatModel, instructions string, opts ...Option) *Agent {
	a := &Agent{
		name:         name,
		model:        model,
		instructions: instructions,
		maxSteps:     defaultMaxSteps,
		tools:        make(map[string]Tool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) Schema() *Schema { return a.schema }

// Tools lists the tool names in registration order.
func (a *Agent) Tools() []string {
	out := make([]string, len(a.specs))
	for i, s := range a.specs {
		out[i] = s.Name
	}
	return out
}

// Run sends prompt to the model and executes tool calls until the model
// produces a final answer or the step budget runs out.
func (a *Agent) Run(ctx context.Context, prompt string) (_ Result, err error) {
	ctx, done := obs.Start(ctx, "agent."+a.name+".Run")
	defer done(&err)

	messages := []ports.Message{
		{Role: "system", Content: a.instructions},
		{Role: "user", Content: prompt},
	}

	var usage ports.Usage
	for step := 1; step <= a.maxSteps; step++ {
		req := ports.ChatRequest{
			Model:    a.modelName,
			Messages: messages,
			Tools:    a.specs,
		}
		if a.schema != nil {
			req.Response = &ports.ResponseSchema{Name: a.schema.Name, Schema: a.schema.JSONSchema()}
		}

		resp, err := a.model.Complete(ctx, req)
		if err != nil {
			return Result{}, fmt.Errorf("agent %s: step %d: %w", a.name, step, err)
		}
		usage.PromptTokens += resp.Usage.PromptTokens
		usage.CompletionTokens += resp.Usage.CompletionTokens
		usage.TotalTokens += resp.Usage.TotalTokens

		msg := resp.Message
		if len(msg.ToolCalls) == 0 {
			text := strings.TrimSpace(msg.Content)
			if text == "" {
				return Result{}, fmt.Errorf("agent %s: %w", a.name, ErrNoContent)
			}

			res := Result{Text: text, Steps: step, Usage: usage, schema: a.schema}
			if a.schema != nil {
				if obj, ok := jsonObject(text); ok {
					res.Structured = obj
				}
			}
			return res, nil
		}

		msg.Role = "assistant"
		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			messages = append(messages, ports.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    a.callTool(ctx, call),
			})
		}
	}

	return Result{}, fmt.Errorf("agent %s: %w (%d)", a.name, ErrMaxSteps, a.maxSteps)
}

// callTool runs one tool call. Failures go back to the model as text.
func (a *Agent) callTool(ctx context.Context, call ports.ToolCall) string {
	t, ok := a.tools[call.Name]
	if !ok {
		return fmt.Sprintf("error: unknown tool %q", call.Name)
	}

	out, err := t.Call(ctx, call.Arguments)
	if err != nil {
		log.Warn().Str("agent", a.name).Str("tool", call.Name).Err(err).Msg("tool call failed")
		return "error: " + err.Error()
	}

	log.Debug().Str("agent", a.name).Str("tool", call.Name).Int("bytes", len(out)).Msg("tool call")
	return out
}
