package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/arpankumarde/neevtrace/internal/domain"
)

// MemoryStore is a brute-force cosine similarity index held in memory. It is
// used when no database is configured and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.KnowledgeChunk // collection + "\x00" + id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]domain.KnowledgeChunk)}
}

func memKey(collection, id string) string {
	return collection + "\x00" + id
}

func (s *MemoryStore) Upsert(_ context.Context, chunks []domain.KnowledgeChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, c := range chunks {
		if c.ID == "" {
			return fmt.Errorf("memory store: chunk without id from %q", c.Source)
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.Vector = append([]float64(nil), c.Vector...)
		s.chunks[memKey(c.Collection, c.ID)] = c
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, collection string, vector []float64, topK int) ([]domain.KnowledgeHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.KnowledgeHit
	for _, c := range s.chunks {
		if c.Collection != collection || len(c.Vector) != len(vector) {
			continue
		}
		hits = append(hits, domain.KnowledgeHit{Chunk: c, Score: cosine(vector, c.Vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})
	if topK >= 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func (s *MemoryStore) HasSource(_ context.Context, collection, source string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.chunks {
		if c.Collection == collection && c.Source == source {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DropCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, c := range s.chunks {
		if c.Collection == collection {
			delete(s.chunks, k)
		}
	}
	return nil
}

// Len reports the number of stored chunks across collections.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
