// Package retriever implements curriculum-aware context retrieval: vector
// search over indexed chunks, post-filtering by board, class and subject,
// and formatting of the retrieved context for the tutoring model.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"studyrag/types"
)

// Searcher is the slice of the store the retriever needs.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]types.Chunk, error)
}

// Embedder turns the query text into a vector.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

const (
	// DefaultTopK is how many chunks a query receives when the caller does
	// not ask for a specific amount.
	DefaultTopK = 3

	// fetchLimit is the candidate pool pulled from the store before
	// filtering. Filters discard candidates, so we over-fetch.
	fetchLimit = 10
)

// Filter restricts retrieved chunks by curriculum metadata. Empty fields
// do not constrain. A set field matches when its value is a case-insensitive
// substring of the chunk's corresponding metadata field.
type Filter struct {
	Board   string
	Class   string
	Subject string
}

// IsZero reports whether no filter component is set.
func (f Filter) IsZero() bool {
	return f.Board == "" && f.Class == "" && f.Subject == ""
}

// Matches reports whether the chunk metadata satisfies every set component.
func (f Filter) Matches(m types.Metadata) bool {
	if f.Board != "" && !containsFold(m.Board, f.Board) {
		return false
	}
	if f.Class != "" && !containsFold(m.Class, f.Class) {
		return false
	}
	if f.Subject != "" && !containsFold(m.Subject, f.Subject) {
		return false
	}
	return true
}

func (f Filter) describe() []string {
	var parts []string
	if f.Board != "" {
		parts = append(parts, "Board: "+f.Board)
	}
	if f.Class != "" {
		parts = append(parts, "Class: "+f.Class)
	}
	if f.Subject != "" {
		parts = append(parts, "Subject: "+f.Subject)
	}
	return parts
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ContextRetriever fetches the chunks most relevant to a student question.
type ContextRetriever struct {
	searcher Searcher
	embedder Embedder
	logger   *slog.Logger
}

func New(searcher Searcher, embedder Embedder) *ContextRetriever {
	return &ContextRetriever{
		searcher: searcher,
		embedder: embedder,
		logger:   slog.Default(),
	}
}

// Retrieve embeds the query, pulls a candidate pool from the store, applies
// the filter and returns at most topK chunks in similarity order. Retrieval
// failure is not fatal to answering: any error is logged and an empty slice
// returned, so the caller degrades to an answer without context.
func (r *ContextRetriever) Retrieve(ctx context.Context, query string, filter Filter, topK int) []types.Chunk {
	if r.searcher == nil {
		r.logger.Warn("no searcher available, retrieval skipped")
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	embedding, err := r.embedder.Embed(query)
	if err != nil {
		r.logger.Warn("failed to embed query", "error", err)
		return nil
	}

	limit := fetchLimit
	if topK > limit {
		limit = topK
	}

	candidates, err := r.searcher.Search(ctx, embedding, limit)
	if err != nil {
		r.logger.Warn("vector search failed", "error", err)
		return nil
	}

	final := candidates
	if !filter.IsZero() {
		final = final[:0:0]
		for _, c := range candidates {
			if filter.Matches(c.Metadata) {
				final = append(final, c)
			}
		}
	}

	if len(final) > topK {
		final = final[:topK]
	}

	r.logger.Info("retrieved context",
		"query", truncate(query, 50),
		"candidates", len(candidates),
		"returned", len(final),
		"filters", strings.Join(filter.describe(), ", "))

	return final
}

// FormatContext renders retrieved chunks as the context block handed to the
// tutoring model. An empty result yields a message naming the filters that
// produced it.
func FormatContext(chunks []types.Chunk, filter Filter) string {
	if len(chunks) == 0 {
		var filters []string
		if filter.Board != "" {
			filters = append(filters, filter.Board+" board")
		}
		if filter.Class != "" {
			filters = append(filters, filter.Class)
		}
		if filter.Subject != "" {
			filters = append(filters, filter.Subject)
		}

		desc := ""
		if len(filters) > 0 {
			desc = " for " + strings.Join(filters, ", ")
		}
		return fmt.Sprintf("No relevant context found in the knowledge base%s.", desc)
	}

	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		m := c.Metadata
		part := fmt.Sprintf(`
Context %d:
Board: %s
Subject: %s
Class: %s
Chapter: %s
Curriculum Type: %s
Region: %s
Content: %s
`,
			i+1,
			orUnknown(m.Board),
			orUnknown(m.Subject),
			orUnknown(m.Class),
			orUnknown(m.Chapter),
			orUnknown(m.CurriculumType),
			orUnknown(m.Region),
			strings.TrimSpace(c.Content),
		)
		parts = append(parts, part)
	}

	return strings.Join(parts, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
