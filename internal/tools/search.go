package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Search is a tool backed by one SearchProvider, optionally cached.
type Search struct {
	name        string
	description string
	provider    ports.SearchProvider
	cache       ports.SearchCache
	ttl         time.Duration
}

func NewSearch(name, description string, provider ports.SearchProvider) *Search {
	return &Search{name: name, description: description, provider: provider}
}

// Cached returns a copy that reads through cache with the given TTL.
func (s *Search) Cached(cache ports.SearchCache, ttl time.Duration) *Search {
	cp := *s
	cp.cache = cache
	cp.ttl = ttl
	return &cp
}

func WebSearch(p ports.SearchProvider) *Search {
	return NewSearch("duckduckgo_search",
		"Search the web with DuckDuckGo. Use for current freight rates, carrier news and emission factors.", p)
}

func WikipediaSearch(p ports.SearchProvider) *Search {
	return NewSearch("search_wikipedia",
		"Search Wikipedia for background on places, transport modes and fuels.", p)
}

func ArxivSearch(p ports.SearchProvider) *Search {
	return NewSearch("search_arxiv",
		"Search arXiv for research papers on logistics, routing and emissions.", p)
}

func (s *Search) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        s.name,
		Description: s.description,
		Parameters:  agent.ObjectParams(stringParam("query", "Search query")),
	}
}

func (s *Search) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var query string
	if err := decodeArgs(args, map[string]*string{"query": &query}); err != nil {
		return "", err
	}

	results, err := s.search(ctx, query)
	if err != nil {
		return "", err
	}
	return formatResults(results), nil
}

func (s *Search) search(ctx context.Context, query string) ([]ports.SearchResult, error) {
	if s.cache != nil {
		results, ok, err := s.cache.Get(ctx, s.name, query)
		if err != nil {
			log.Warn().Err(err).Str("tool", s.name).Msg("search cache read failed")
		} else if ok {
			return results, nil
		}
	}

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, s.name, query, results, s.ttl); err != nil {
			log.Warn().Err(err).Str("tool", s.name).Msg("search cache write failed")
		}
	}
	return results, nil
}

func formatResults(results []ports.SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(r.Snippet, 500))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
