package domain

import "time"

// KnowledgeChunk is one embedded slice of an ingested document.
type KnowledgeChunk struct {
	ID         string
	Collection string
	Source     string
	Index      int
	Content    string
	Vector     []float64
	CreatedAt  time.Time
}

// KnowledgeHit is a chunk returned by a similarity search.
type KnowledgeHit struct {
	Chunk KnowledgeChunk
	Score float64
}

// IngestReport summarises one knowledge base load.
type IngestReport struct {
	Documents int `json:"documents"`
	Skipped   int `json:"skipped"`
	Chunks    int `json:"chunks"`
}
