package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// OpenAI-compatible wire types.

type chatMessage struct {
	Role       string         `json:"role"`
	Content    *string        `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type responseFormat struct {
	Type       string             `json:"type"`
	JSONSchema *jsonSchemaWrapper `json:"json_schema,omitempty"`
}

type jsonSchemaWrapper struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Tools          []wireTool      `json:"tools,omitempty"`
	ToolChoice     string          `json:"tool_choice,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		FinishReason string      `json:"finish_reason"`
		Message      chatMessage `json:"message"`
	} `json:"choices"`
	Usage *ports.Usage `json:"usage,omitempty"`
}

// Complete implements ports.ChatModel against /chat/completions.
func (c *Client) Complete(ctx context.Context, req ports.ChatRequest) (_ ports.ChatResponse, err error) {
	defer obs.Time(ctx, "llm.Complete")(&err)

	model := req.Model
	if model == "" {
		model = c.model
	}

	body := chatRequest{
		Model:    model,
		Messages: toWireMessages(req.Messages),
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, wireTool{
			Type:     "function",
			Function: wireFunction{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}
	if len(body.Tools) > 0 {
		body.ToolChoice = "auto"
	}
	if req.Response != nil {
		body.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchemaWrapper{Name: req.Response.Name, Schema: req.Response.Schema},
		}
	}

	var out chatResponse
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return ports.ChatResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return ports.ChatResponse{}, fmt.Errorf("chat completion: no choices in response")
	}

	choice := out.Choices[0]
	res := ports.ChatResponse{
		Message:      fromWireMessage(choice.Message),
		FinishReason: choice.FinishReason,
	}
	if out.Usage != nil {
		res.Usage = *out.Usage
	}
	return res, nil
}

func toWireMessages(in []ports.Message) []chatMessage {
	out := make([]chatMessage, 0, len(in))
	for _, m := range in {
		content := m.Content
		wm := chatMessage{
			Role:       m.Role,
			Content:    &content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		if len(m.ToolCalls) > 0 && content == "" {
			wm.Content = nil
		}
		for _, tc := range m.ToolCalls {
			var w wireToolCall
			w.ID = tc.ID
			w.Type = "function"
			w.Function.Name = tc.Name
			w.Function.Arguments = string(tc.Arguments)
			wm.ToolCalls = append(wm.ToolCalls, w)
		}
		out = append(out, wm)
	}
	return out
}

func fromWireMessage(m chatMessage) ports.Message {
	msg := ports.Message{Role: m.Role, Name: m.Name, ToolCallID: m.ToolCallID}
	if m.Content != nil {
		msg.Content = *m.Content
	}
	for _, tc := range m.ToolCalls {
		args := json.RawMessage(tc.Function.Arguments)
		switch {
		case len(args) == 0:
			args = json.RawMessage("{}")
		case !json.Valid(args):
			args, _ = json.Marshal(tc.Function.Arguments)
		}
		msg.ToolCalls = append(msg.ToolCalls, ports.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return msg
}
