package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Base is a collection of documents indexed for similarity search: PDFs
// are downloaded, chunked, embedded and stored in a vector store.
type Base struct {
	collection  string
	loader      ports.DocumentLoader
	embedder    ports.Embedder
	store       ports.VectorStore
	chunker     Chunker
	concurrency int
}

type Option func(*Base)

func WithChunker(c Chunker) Option {
	return func(b *Base) { b.chunker = c }
}

// WithConcurrency bounds how many documents are processed at once.
func WithConcurrency(n int) Option {
	return func(b *Base) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func New(collection string, loader ports.DocumentLoader, embedder ports.Embedder, store ports.VectorStore, opts ...Option) *Base {
	b := &Base{
		collection:  collection,
		loader:      loader,
		embedder:    embedder,
		store:       store,
		chunker:     DefaultChunker(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Base) Collection() string { return b.collection }

// ErrNoDocuments is returned by Load when urls is empty.
var ErrNoDocuments = errors.New("knowledge load: no documents given")

// Load ingests urls. With recreate the collection is emptied first;
// otherwise documents already present are skipped. Any document failure
// aborts the load. An empty urls list is rejected before anything is dropped.
func (b *Base) Load(ctx context.Context, urls []string, recreate bool) (_ domain.IngestReport, err error) {
	ctx, done := obs.Start(ctx, "knowledge.Load")
	defer done(&err)

	if len(dedupe(urls)) == 0 {
		return domain.IngestReport{}, ErrNoDocuments
	}

	start := time.Now()

	if recreate {
		if err := b.store.DropCollection(ctx, b.collection); err != nil {
			return domain.IngestReport{}, fmt.Errorf("knowledge load: %w", err)
		}
	}

	var (
		mu     sync.Mutex
		report domain.IngestReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, u := range dedupe(urls) {
		u := u
		g.Go(func() error {
			if !recreate {
				exists, err := b.store.HasSource(gctx, b.collection, u)
				if err != nil {
					return fmt.Errorf("check %q: %w", u, err)
				}
				if exists {
					mu.Lock()
					report.Skipped++
					mu.Unlock()
					return nil
				}
			}

			n, err := b.ingest(gctx, u)
			if err != nil {
				return err
			}

			mu.Lock()
			report.Documents++
			report.Chunks += n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("knowledge load: %w", err)
	}

	log.Info().
		Str("collection", b.collection).
		Int("documents", report.Documents).
		Int("skipped", report.Skipped).
		Int("chunks", report.Chunks).
		Dur("elapsed", time.Since(start)).
		Msg("knowledge base loaded")

	return report, nil
}

// ingest runs load -> chunk -> embed -> upsert for one document.
func (b *Base) ingest(ctx context.Context, url string) (int, error) {
	text, err := b.loader.Load(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("load %q: %w", url, err)
	}

	pieces := b.chunker.Split(text)
	if len(pieces) == 0 {
		log.Warn().Str("url", url).Msg("document has no text, skipped")
		return 0, nil
	}

	vectors, err := b.embedAll(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", url, err)
	}

	now := time.Now()
	chunks := make([]domain.KnowledgeChunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = domain.KnowledgeChunk{
			ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", url, i))).String(),
			Collection: b.collection,
			Source:     url,
			Index:      i,
			Content:    p,
			Vector:     vectors[i],
			CreatedAt:  now,
		}
	}

	if err := b.store.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store %q: %w", url, err)
	}
	return len(chunks), nil
}

func (b *Base) embedAll(ctx context.Context, texts []string) ([][]float64, error) {
	batch := b.embedder.MaxBatchSize()
	if batch <= 0 {
		batch = len(texts)
	}

	out := make([][]float64, 0, len(texts))
	for i := 0; i < len(texts); i += batch {
		end := min(i+batch, len(texts))
		vecs, err := b.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
		if len(vecs) != end-i {
			return nil, fmt.Errorf("batch %d-%d: got %d vectors", i, end, len(vecs))
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// Search returns the topK chunks closest to query.
func (b *Base) Search(ctx context.Context, query string, topK int) (_ []domain.KnowledgeHit, err error) {
	defer obs.Time(ctx, "knowledge.Search")(&err)

	if strings.TrimSpace(query) == "" {
		return nil, errors.New("knowledge search: query is empty")
	}
	if topK <= 0 {
		topK = 5
	}

	vecs, err := b.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("knowledge search: embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("knowledge search: got %d query vectors", len(vecs))
	}

	hits, err := b.store.Search(ctx, b.collection, vecs[0], topK)
	if err != nil {
		return nil, fmt.Errorf("knowledge search: %w", err)
	}
	return hits, nil
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
