package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
)

// Client talks to an OpenAI-compatible API (Gemini's compatibility layer by
// default). One Client is shared by every agent; it is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *httpx.Client
	breaker *gobreaker.CircuitBreaker
}

type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(c *httpx.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithBreaker trips after maxFailures consecutive failures and stays open for
// cooldown before probing with a single request.
func WithBreaker(maxFailures int, cooldown time.Duration) Option {
	return func(cl *Client) {
		if maxFailures < 1 {
			cl.breaker = nil
			return
		}
		cl.breaker = newBreaker("model_provider", maxFailures, cooldown)
	}
}

func NewClient(baseURL, apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("model api key is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model name is empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    httpx.New(120 * time.Second),
		breaker: newBreaker("model_provider", 5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newBreaker(name string, maxFailures int, cooldown time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

// post sends body to path once (model calls are not retried) and decodes the
// JSON response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	call := func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	}

	if c.breaker == nil {
		_, err = call()
		return err
	}

	_, err = c.breaker.Execute(call)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("model provider circuit open: %w", err)
	}
	return err
}
