package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNote = "# Ch2\nintro text\n## Sub\nmore text"

func TestChunker_DispatchesByStrategy(t *testing.T) {
	c := New()

	assert.Equal(t, SplitByHeadings(sampleNote), c.Chunk(sampleNote, StrategyHeadings))
	assert.Equal(t, SplitWithLimit(sampleNote, DefaultMaxChunkSize, DefaultOverlapSize),
		c.Chunk(sampleNote, StrategyAdvanced))
	assert.Equal(t, SplitBySentences(sampleNote, DefaultMaxSentences),
		c.Chunk(sampleNote, StrategySentences))
	assert.Equal(t, SplitByParagraphs(sampleNote, DefaultMaxParagraphs),
		c.Chunk(sampleNote, StrategyParagraphs))
}

func TestChunker_UnknownStrategyFallsBackToHeadings(t *testing.T) {
	c := New()

	assert.Equal(t, SplitByHeadings(sampleNote), c.Chunk(sampleNote, Strategy("bogus")))
}

func TestChunker_OptionsNormalized(t *testing.T) {
	c := NewWithOptions(Options{MaxChunkSize: -5, OverlapSize: -1})

	assert.Equal(t, DefaultMaxChunkSize, c.opts.MaxChunkSize)
	assert.Equal(t, DefaultOverlapSize, c.opts.OverlapSize)
	assert.Equal(t, DefaultMaxSentences, c.opts.MaxSentences)
	assert.Equal(t, DefaultMaxParagraphs, c.opts.MaxParagraphs)
}

func TestChunker_ZeroOverlapRespected(t *testing.T) {
	c := NewWithOptions(Options{MaxChunkSize: 100, OverlapSize: 0})

	assert.Equal(t, 0, c.opts.OverlapSize)
}

func TestDescribe(t *testing.T) {
	infos := Describe([]string{"# Intro\nsome text here", "plain chunk"})

	require.Len(t, infos, 2)

	assert.Equal(t, 0, infos[0].Index)
	assert.Equal(t, 2, infos[0].Total)
	assert.Equal(t, "chunk_0", infos[0].ID)
	assert.Equal(t, "# Intro", infos[0].Heading)
	assert.Equal(t, 5, infos[0].WordCount)
	assert.Equal(t, len("# Intro\nsome text here"), infos[0].CharCount)

	assert.Equal(t, "chunk_1", infos[1].ID)
	assert.Empty(t, infos[1].Heading)
	assert.Equal(t, 2, infos[1].WordCount)
}
