package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.KnowledgeHit, error)
}

// SearchKnowledge lets an agent query the ingested document collection.
type SearchKnowledge struct {
	kb   KnowledgeSearcher
	topK int
}

func NewSearchKnowledge(kb KnowledgeSearcher) *SearchKnowledge {
	return &SearchKnowledge{kb: kb, topK: 5}
}

func (t *SearchKnowledge) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        "search_knowledge_base",
		Description: "Search the company knowledge base (certificates, policies, manuals) for relevant passages.",
		Parameters:  agent.ObjectParams(stringParam("query", "What to look for")),
	}
}

func (t *SearchKnowledge) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var query string
	if err := decodeArgs(args, map[string]*string{"query": &query}); err != nil {
		return "", err
	}

	hits, err := t.kb.Search(ctx, query, t.topK)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "No relevant documents found.", nil
	}

	var b strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&b, "[%d] source: %s (score %.3f)\n%s\n\n", i+1, h.Chunk.Source, h.Score, h.Chunk.Content)
	}
	return strings.TrimSpace(b.String()), nil
}
