package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
)

// PgvectorStore keeps knowledge chunks in Postgres with the pgvector
// extension and ranks them by cosine distance.
type PgvectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

func NewPgvectorStore(ctx context.Context, connURL string, dimensions int) (*PgvectorStore, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("pgvector connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector ping: %w", err)
	}

	log.Info().Int("dims", dimensions).Msg("pgvector store connected")
	return &PgvectorStore{pool: pool, dimensions: dimensions}, nil
}

// Migrate creates the extension, table and indexes if missing.
func (s *PgvectorStore) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS knowledge_chunks (
			id          TEXT NOT NULL,
			collection  TEXT NOT NULL,
			source      TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			content     TEXT NOT NULL,
			vector      vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		);

		CREATE INDEX IF NOT EXISTS idx_knowledge_chunks_source
			ON knowledge_chunks (collection, source);
	`, s.dimensions)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("pgvector migrate: %w", err)
	}
	return nil
}

func (s *PgvectorStore) Upsert(ctx context.Context, chunks []domain.KnowledgeChunk) (err error) {
	defer obs.Time(ctx, "pgvector.Upsert")(&err)

	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		if len(c.Vector) != s.dimensions {
			return fmt.Errorf("pgvector upsert: chunk %s has %d dims, want %d", c.ID, len(c.Vector), s.dimensions)
		}
		created := c.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		batch.Queue(`
			INSERT INTO knowledge_chunks (id, collection, source, chunk_index, content, vector, created_at)
			VALUES ($1, $2, $3, $4, $5, $6::vector, $7)
			ON CONFLICT (collection, id) DO UPDATE SET
				source = EXCLUDED.source,
				chunk_index = EXCLUDED.chunk_index,
				content = EXCLUDED.content,
				vector = EXCLUDED.vector`,
			c.ID, c.Collection, c.Source, c.Index, c.Content, vectorLiteral(c.Vector), created)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range chunks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("pgvector upsert: %w", err)
		}
	}
	return nil
}

func (s *PgvectorStore) Search(
	ctx context.Context,
	collection string,
	vector []float64,
	topK int,
) (_ []domain.KnowledgeHit, err error) {
	defer obs.Time(ctx, "pgvector.Search")(&err)

	rows, err := s.pool.Query(ctx, `
		SELECT id, collection, source, chunk_index, content, created_at,
			1 - (vector <=> $1::vector) AS score
		FROM knowledge_chunks
		WHERE collection = $2
		ORDER BY vector <=> $1::vector
		LIMIT $3`,
		vectorLiteral(vector), collection, topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector search: %w", err)
	}
	defer rows.Close()

	var hits []domain.KnowledgeHit
	for rows.Next() {
		var h domain.KnowledgeHit
		c := &h.Chunk
		if err := rows.Scan(&c.ID, &c.Collection, &c.Source, &c.Index, &c.Content, &c.CreatedAt, &h.Score); err != nil {
			return nil, fmt.Errorf("pgvector scan: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *PgvectorStore) HasSource(ctx context.Context, collection, source string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM knowledge_chunks WHERE collection = $1 AND source = $2)`,
		collection, source).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgvector has source: %w", err)
	}
	return exists, nil
}

func (s *PgvectorStore) DropCollection(ctx context.Context, collection string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM knowledge_chunks WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("pgvector drop collection %q: %w", collection, err)
	}
	return nil
}

func (s *PgvectorStore) Close() {
	s.pool.Close()
}

// vectorLiteral renders v in pgvector's text format: [1,2.5,3].
func vectorLiteral(v []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
