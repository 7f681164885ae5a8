package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// longLines builds text with n lines of exactly width characters and no
// blank lines, so refinement has to fall back to single-newline splitting.
func longLines(n, width int) string {
	lines := make([]string, n)
	for i := range lines {
		prefix := fmt.Sprintf("line %03d ", i)
		lines[i] = prefix + strings.Repeat("x", width-len(prefix))
	}
	return strings.Join(lines, "\n")
}

func TestSplitWithLimit_DegenerateInput(t *testing.T) {
	assert.Equal(t, []string{""}, SplitWithLimit("", 1000, 100))
	assert.Equal(t, []string{" \t "}, SplitWithLimit(" \t ", 1000, 100))
}

func TestSplitWithLimit_SmallSegmentsPassThrough(t *testing.T) {
	text := "# A\nshort body\n# B\nanother short body"
	assert.Equal(t, SplitByHeadings(text), SplitWithLimit(text, 1000, 100))
}

func TestSplitWithLimit_SizeBoundAndOverlap(t *testing.T) {
	text := longLines(50, 49) // 2499 chars, no blank lines
	chunks := SplitWithLimit(text, 1000, 100)

	require.GreaterOrEqual(t, len(chunks), 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
	}

	// Each chunk after the first starts with the trailing context of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		overlap := strings.TrimSpace(prev[len(prev)-100:])
		assert.True(t, strings.HasPrefix(chunks[i], overlap),
			"chunk %d does not start with the previous chunk's tail", i)
	}
}

func TestSplitWithLimit_ParagraphOverlapExact(t *testing.T) {
	pA := strings.Repeat("a", 600)
	pB := strings.Repeat("b", 600)
	text := "# H\n\n" + pA + "\n\n" + pB

	chunks := SplitWithLimit(text, 1000, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, "# H\n\n"+pA, chunks[0])
	assert.Equal(t, strings.Repeat("a", 100)+"\n\n"+pB, chunks[1])
}

func TestSplitWithLimit_OversizedWordEmittedWhole(t *testing.T) {
	word := strings.Repeat("w", 1500)
	chunks := SplitWithLimit(word, 1000, 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, word, chunks[0])
}

func TestSplitWithLimit_WordFallbackHasNoOverlap(t *testing.T) {
	// One giant paragraph of spaced words forces the word-level cascade,
	// which packs greedily without seeding overlap.
	words := make([]string, 300)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	text := strings.Join(words, " ") // 300*7 + 299 = 2399 chars, single paragraph

	chunks := SplitWithLimit(text, 500, 100)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 500)
	}
	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i])[0]
		assert.NotContains(t, chunks[i-1], first, "word-level sub-chunks must not overlap")
	}
}

func TestSplitWithLimit_NoContentLoss(t *testing.T) {
	text := "# Plants\n\n" + longLines(10, 80) + "\n\n## Roots\n\n" + longLines(30, 60)
	chunks := SplitWithLimit(text, 400, 50)

	want := wordSet(text)
	got := make(map[string]bool)
	for _, chunk := range chunks {
		for w := range wordSet(chunk) {
			got[w] = true
		}
	}

	for w := range want {
		assert.True(t, got[w], "word %q lost during chunking", w)
	}
	for w := range got {
		assert.True(t, want[w], "word %q appeared from nowhere", w)
	}
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
