package ports

import (
	"context"
	"time"

	"github.com/arpankumarde/neevtrace/internal/domain"
)

// SearchResult is a single hit returned by a SearchProvider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchProvider executes a free-text query against one source
// (web, encyclopedia, paper index).
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Article is the readable text of a fetched page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (Article, error)
}

// SearchCache stores search results per source and query.
// A miss is (nil, false, nil).
type SearchCache interface {
	Get(ctx context.Context, source, query string) ([]SearchResult, bool, error)
	Put(ctx context.Context, source, query string, results []SearchResult, ttl time.Duration) error
}

// VectorStore persists knowledge chunks and runs similarity search over them.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []domain.KnowledgeChunk) error
	Search(ctx context.Context, collection string, vector []float64, topK int) ([]domain.KnowledgeHit, error)
	HasSource(ctx context.Context, collection, source string) (bool, error)
	DropCollection(ctx context.Context, collection string) error
}

// DocumentLoader downloads a document and returns its plain text.
type DocumentLoader interface {
	Load(ctx context.Context, url string) (string, error)
}
