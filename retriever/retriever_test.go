package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"studyrag/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	chunks []types.Chunk
	err    error
	limit  int
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, limit int) ([]types.Chunk, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.chunks) > limit {
		return f.chunks[:limit], nil
	}
	return f.chunks, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func chunkWith(board, class, subject, content string) types.Chunk {
	return types.Chunk{
		Content: content,
		Metadata: types.Metadata{
			Board:   board,
			Class:   class,
			Subject: subject,
		},
	}
}

func TestFilter_Matches(t *testing.T) {
	m := types.Metadata{Board: "NCERT", Class: "Class 5", Subject: "Mathematics"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches everything", Filter{}, true},
		{"exact board", Filter{Board: "NCERT"}, true},
		{"case-insensitive board", Filter{Board: "ncert"}, true},
		{"substring board", Filter{Board: "CERT"}, true},
		{"wrong board", Filter{Board: "CBSE"}, false},
		{"all components match", Filter{Board: "ncert", Class: "class 5", Subject: "math"}, true},
		{"one component fails", Filter{Board: "NCERT", Subject: "History"}, false},
		{"class substring", Filter{Class: "5"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(m))
		})
	}
}

func TestRetrieve_UnfilteredReturnsTopK(t *testing.T) {
	var chunks []types.Chunk
	for i := 0; i < 8; i++ {
		chunks = append(chunks, chunkWith("CBSE", "Class 6", "Science", fmt.Sprintf("chunk %d", i)))
	}
	s := &fakeSearcher{chunks: chunks}
	r := New(s, &fakeEmbedder{})

	got := r.Retrieve(context.Background(), "photosynthesis", Filter{}, 5)

	require.Len(t, got, 5)
	assert.Equal(t, "chunk 0", got[0].Content)
	assert.Equal(t, "chunk 4", got[4].Content)
	assert.GreaterOrEqual(t, s.limit, 5)
}

func TestRetrieve_FilterKeepsOnlyMatching(t *testing.T) {
	s := &fakeSearcher{chunks: []types.Chunk{
		chunkWith("CBSE", "Class 6", "Science", "cbse one"),
		chunkWith("NCERT", "Class 6", "Science", "ncert one"),
		chunkWith("ICSE", "Class 6", "Science", "icse one"),
		chunkWith("NCERT", "Class 7", "Science", "ncert two"),
	}}
	r := New(s, &fakeEmbedder{})

	got := r.Retrieve(context.Background(), "fractions", Filter{Board: "ncert"}, 5)

	require.Len(t, got, 2)
	assert.Equal(t, "ncert one", got[0].Content)
	assert.Equal(t, "ncert two", got[1].Content)
}

func TestRetrieve_FilterConjunction(t *testing.T) {
	s := &fakeSearcher{chunks: []types.Chunk{
		chunkWith("NCERT", "Class 5", "Mathematics", "keep"),
		chunkWith("NCERT", "Class 5", "Science", "wrong subject"),
		chunkWith("NCERT", "Class 6", "Mathematics", "wrong class"),
	}}
	r := New(s, &fakeEmbedder{})

	got := r.Retrieve(context.Background(), "fractions",
		Filter{Board: "NCERT", Class: "Class 5", Subject: "Math"}, 5)

	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Content)
}

func TestRetrieve_TopKTruncatesInOrder(t *testing.T) {
	s := &fakeSearcher{chunks: []types.Chunk{
		chunkWith("CBSE", "", "", "first"),
		chunkWith("CBSE", "", "", "second"),
		chunkWith("CBSE", "", "", "third"),
	}}
	r := New(s, &fakeEmbedder{})

	got := r.Retrieve(context.Background(), "q", Filter{Board: "CBSE"}, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
}

func TestRetrieve_DegradesToEmpty(t *testing.T) {
	t.Run("nil searcher", func(t *testing.T) {
		r := New(nil, &fakeEmbedder{})
		assert.Empty(t, r.Retrieve(context.Background(), "q", Filter{}, 3))
	})

	t.Run("embedding failure", func(t *testing.T) {
		r := New(&fakeSearcher{}, &fakeEmbedder{err: errors.New("ollama down")})
		assert.Empty(t, r.Retrieve(context.Background(), "q", Filter{}, 3))
	})

	t.Run("search failure", func(t *testing.T) {
		r := New(&fakeSearcher{err: errors.New("db down")}, &fakeEmbedder{})
		assert.Empty(t, r.Retrieve(context.Background(), "q", Filter{}, 3))
	})
}

func TestRetrieve_NonPositiveTopKUsesDefault(t *testing.T) {
	var chunks []types.Chunk
	for i := 0; i < 6; i++ {
		chunks = append(chunks, chunkWith("", "", "", fmt.Sprintf("c%d", i)))
	}
	r := New(&fakeSearcher{chunks: chunks}, &fakeEmbedder{})

	got := r.Retrieve(context.Background(), "q", Filter{}, 0)

	assert.Len(t, got, DefaultTopK)
}

func TestFormatContext_EmptyWithFilters(t *testing.T) {
	got := FormatContext(nil, Filter{Board: "CBSE", Class: "Class 5", Subject: "Science"})

	assert.Equal(t,
		"No relevant context found in the knowledge base for CBSE board, Class 5, Science.",
		got)
}

func TestFormatContext_EmptyWithoutFilters(t *testing.T) {
	assert.Equal(t,
		"No relevant context found in the knowledge base.",
		FormatContext(nil, Filter{}))
}

func TestFormatContext_RendersMetadataBlocks(t *testing.T) {
	chunks := []types.Chunk{
		{
			Content: "  Plants make food by photosynthesis.  ",
			Metadata: types.Metadata{
				Board:          "NCERT",
				Subject:        "Science",
				Class:          "Class 7",
				Chapter:        "Nutrition in Plants",
				CurriculumType: "National",
				Region:         "National",
			},
		},
		{
			Content:  "Second chunk body.",
			Metadata: types.Metadata{Board: "NCERT"},
		},
	}

	got := FormatContext(chunks, Filter{})

	assert.Contains(t, got, "Context 1:")
	assert.Contains(t, got, "Context 2:")
	assert.Contains(t, got, "Board: NCERT")
	assert.Contains(t, got, "Chapter: Nutrition in Plants")
	assert.Contains(t, got, "Content: Plants make food by photosynthesis.")
	assert.NotContains(t, got, "  Plants")

	// unset metadata renders as Unknown
	assert.Contains(t, got, "Subject: Unknown")
	assert.Contains(t, got, "Region: Unknown")

	assert.Equal(t, 2, strings.Count(got, "Content: "))
}
