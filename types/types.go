package types

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is one retrievable slice of a source document. Every chunk carries the
// full curriculum metadata of its document so a search hit can be filtered and
// rendered without a second lookup.
type Chunk struct {
	ID        uuid.UUID
	DocID     uuid.UUID
	Index     int // zero-based position in the produced sequence
	Total     int // sequence length at creation time
	Heading   string
	Content   string
	WordCount int
	CharCount int
	Metadata  Metadata
	Embedding []float32
	Distance  float64 // similarity score, filled by Search
}

type Document struct {
	ID         uuid.UUID
	Title      string
	Metadata   Metadata
	Chunks     []Chunk
	Source     string // md, txt, pdf, image
	SourcePath string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int
}

// Config holds the loader service settings.
type Config struct {
	MonitoringTime time.Duration
	SourceDir      string
	ArchiveDir     string
	BadDir         string
	Strategy       string
	ChunkSize      int
	ChunkOverlap   int
}
