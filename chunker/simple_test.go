package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBySentences_Buckets(t *testing.T) {
	chunks := SplitBySentences("A. B. C. D. E. F.", 2)
	assert.Equal(t, []string{"A. B.", "C. D.", "E. F."}, chunks)
}

func TestSplitBySentences_PartialFinalBucket(t *testing.T) {
	chunks := SplitBySentences("One fish. Two fish. Red fish.", 2)

	require.Len(t, chunks, 2)
	assert.Equal(t, "One fish. Two fish.", chunks[0])
	assert.Equal(t, "Red fish.", chunks[1])
}

func TestSplitBySentences_MixedTerminators(t *testing.T) {
	chunks := SplitBySentences("Really?! Yes. Wow!", 3)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Really. Yes. Wow.", chunks[0])
}

func TestSplitBySentences_DegenerateInput(t *testing.T) {
	assert.Equal(t, []string{""}, SplitBySentences("", 5))
	assert.Equal(t, []string{"  "}, SplitBySentences("  ", 5))
}

func TestSplitByParagraphs_Buckets(t *testing.T) {
	text := "para one\n\npara two\n\npara three\n\npara four"
	chunks := SplitByParagraphs(text, 3)

	require.Len(t, chunks, 2)
	assert.Equal(t, "para one\n\npara two\n\npara three", chunks[0])
	assert.Equal(t, "para four", chunks[1])
}

func TestSplitByParagraphs_DropsBlankFragments(t *testing.T) {
	chunks := SplitByParagraphs("a\n\n\n\nb", 2)

	require.Len(t, chunks, 1)
	assert.Equal(t, "a\n\nb", chunks[0])
}

func TestSplitByParagraphs_DegenerateInput(t *testing.T) {
	assert.Equal(t, []string{""}, SplitByParagraphs("", 3))
	assert.Equal(t, []string{"\t"}, SplitByParagraphs("\t", 3))
}
