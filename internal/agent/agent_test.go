package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/ports"
)

// scriptedModel replays responses in order and records requests.
type scriptedModel struct {
	mu        sync.Mutex
	responses []ports.ChatResponse
	requests  []ports.ChatRequest
}

func (m *scriptedModel) Complete(ctx context.Context, req ports.ChatRequest) (ports.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return ports.ChatResponse{}, errors.New("no scripted response")
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

func answer(content string) ports.ChatResponse {
	return ports.ChatResponse{Message: ports.Message{Role: "assistant", Content: content}}
}

func toolCall(id, name, args string) ports.ChatResponse {
	return ports.ChatResponse{Message: ports.Message{
		Role:      "assistant",
		ToolCalls: []ports.ToolCall{{ID: id, Name: name, Arguments: json.RawMessage(args)}},
	}}
}

var co2Schema = &Schema{
	Name: "co2_estimate",
	Properties: []Property{
		{Name: "estimate", Type: "number"},
		{Name: "unit", Type: "string"},
	},
}

func TestRun_StructuredAnswer(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{
		answer("```json\n{\"estimate\": 123.5, \"unit\": \"kg CO2e\"}\n```"),
	}}
	a := New("co2", model, "estimate emissions", WithSchema(co2Schema))

	res, err := a.Run(context.Background(), "Mumbai to Pune by truck")
	require.NoError(t, err)

	assert.JSONEq(t, `{"estimate":123.5,"unit":"kg CO2e"}`, string(res.Structured))
	assert.Equal(t, "estimate=123.5 unit='kg CO2e'", res.String())
	assert.Equal(t, 1, res.Steps)

	require.Len(t, model.requests, 1)
	require.NotNil(t, model.requests[0].Response)
	assert.Equal(t, "co2_estimate", model.requests[0].Response.Name)
	assert.Equal(t, "system", model.requests[0].Messages[0].Role)
	assert.Equal(t, "Mumbai to Pune by truck", model.requests[0].Messages[1].Content)
}

func TestRun_PlainTextAnswerKeepsText(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{
		answer("estimate=10 unit='kg CO2e'"),
	}}
	a := New("co2", model, "x", WithSchema(co2Schema))

	res, err := a.Run(context.Background(), "q")
	require.NoError(t, err)

	assert.Nil(t, res.Structured)
	assert.Equal(t, "estimate=10 unit='kg CO2e'", res.String())
}

func TestRun_ExecutesToolsAndFeedsBackErrors(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{
		toolCall("1", "lookup", `{"query":"diesel truck factor"}`),
		toolCall("2", "broken", `{}`),
		answer(`{"estimate": 62, "unit": "g CO2e/tkm"}`),
	}}

	var gotArgs string
	lookup := ToolFunc{
		Def: ports.ToolSpec{Name: "lookup", Parameters: ObjectParams(Property{Name: "query", Type: "string"})},
		Fn: func(ctx context.Context, args json.RawMessage) (string, error) {
			gotArgs = string(args)
			return "62 g per tonne-km", nil
		},
	}
	broken := ToolFunc{
		Def: ports.ToolSpec{Name: "broken"},
		Fn: func(ctx context.Context, args json.RawMessage) (string, error) {
			return "", errors.New("upstream down")
		},
	}

	a := New("co2", model, "x", WithSchema(co2Schema), WithTools(lookup, broken))
	assert.Equal(t, []string{"lookup", "broken"}, a.Tools())

	res, err := a.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Steps)
	assert.JSONEq(t, `{"query":"diesel truck factor"}`, gotArgs)

	last := model.requests[2].Messages
	require.GreaterOrEqual(t, len(last), 6)

	var toolOutputs []string
	for _, m := range last {
		if m.Role == "tool" {
			toolOutputs = append(toolOutputs, m.Content)
		}
	}
	require.Len(t, toolOutputs, 2)
	assert.Equal(t, "62 g per tonne-km", toolOutputs[0])
	assert.True(t, strings.HasPrefix(toolOutputs[1], "error: "), toolOutputs[1])
}

func TestRun_UnknownToolIsReportedToModel(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{
		toolCall("1", "nope", `{}`),
		answer("done"),
	}}
	a := New("kb", model, "x")

	res, err := a.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "done", res.String())

	msgs := model.requests[1].Messages
	assert.Contains(t, msgs[len(msgs)-1].Content, `unknown tool "nope"`)
}

func TestRun_StepLimit(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{
		toolCall("1", "nope", `{}`),
		toolCall("2", "nope", `{}`),
	}}
	a := New("co2", model, "x", WithMaxSteps(2))

	_, err := a.Run(context.Background(), "q")
	require.ErrorIs(t, err, ErrMaxSteps)
}

func TestRun_EmptyAnswer(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{answer("  ")}}
	a := New("co2", model, "x")

	_, err := a.Run(context.Background(), "q")
	require.ErrorIs(t, err, ErrNoContent)
}

func TestWithExtraInstructions(t *testing.T) {
	model := &scriptedModel{responses: []ports.ChatResponse{answer("ok")}}
	a := New("co2", model, "base", WithExtraInstructions("prefer rail"), WithModelName("m-1"))

	_, err := a.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "base\n\nprefer rail", model.requests[0].Messages[0].Content)
	assert.Equal(t, "m-1", model.requests[0].Model)
}

func TestSchema_JSONSchemaRequiresAll(t *testing.T) {
	m := co2Schema.JSONSchema()
	assert.Equal(t, []string{"estimate", "unit"}, m["required"])
	assert.Equal(t, "object", m["type"])
}
