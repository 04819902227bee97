package llm

import (
	"context"
	"fmt"

	"github.com/arpankumarde/neevtrace/internal/platform/obs"
)

// Embedder implements ports.Embedder over /embeddings, sharing the Client's
// transport and breaker.
type Embedder struct {
	client     *Client
	model      string
	dimensions int
	batchSize  int
}

func NewEmbedder(c *Client, model string, dimensions int) *Embedder {
	return &Embedder{
		client:     c,
		model:      model,
		dimensions: dimensions,
		batchSize:  100,
	}
}

func (e *Embedder) Dimensions() int   { return e.dimensions }
func (e *Embedder) MaxBatchSize() int { return e.batchSize }

type embedRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) (_ [][]float64, err error) {
	defer obs.Time(ctx, "llm.Embed")(&err)

	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > e.batchSize {
		return nil, fmt.Errorf("embed: batch size %d exceeds max %d", len(texts), e.batchSize)
	}

	var out embedResponse
	req := embedRequest{Input: texts, Model: e.model, Dimensions: e.dimensions}
	if err := e.client.post(ctx, "/embeddings", req, &out); err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	vectors := make([][]float64, len(texts))
	for _, d := range out.Data {
		if d.Index >= 0 && d.Index < len(vectors) {
			vectors[d.Index] = d.Embedding
		}
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("embed: missing vector for input %d", i)
		}
	}
	return vectors, nil
}
