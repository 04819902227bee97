package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/ports"
)

func TestComplete_SendsToolsAndSchema(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": null,
					"tool_calls": [{"id": "c1", "type": "function",
						"function": {"name": "web_search", "arguments": "{\"query\":\"rail freight CO2\"}"}}]
				}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "k", "gemini-2.0-flash")
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), ports.ChatRequest{
		Messages: []ports.Message{{Role: "user", Content: "hi"}},
		Tools:    []ports.ToolSpec{{Name: "web_search", Description: "search"}},
		Response: &ports.ResponseSchema{Name: "co2", Schema: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", got["model"])
	assert.Equal(t, "auto", got["tool_choice"])
	rf := got["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", rf["type"])

	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "web_search", resp.Message.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"rail freight CO2"}`, string(resp.Message.ToolCalls[0].Arguments))
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestComplete_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "k", "m", WithBreaker(2, time.Minute))
	require.NoError(t, err)

	req := ports.ChatRequest{Messages: []ports.Message{{Role: "user", Content: "hi"}}}
	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), req)
		require.Error(t, err)
	}

	_, err = c.Complete(context.Background(), req)
	require.True(t, errors.Is(err, gobreaker.ErrOpenState), "err = %v", err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbed_ReordersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "k", "m")
	require.NoError(t, err)

	e := NewEmbedder(c, "text-embedding-004", 2)
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, vecs)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("http://x", "", "m")
	require.Error(t, err)
}
