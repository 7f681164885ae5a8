package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitByHeadings_DegenerateInput(t *testing.T) {
	assert.Equal(t, []string{""}, SplitByHeadings(""))
	assert.Equal(t, []string{"   "}, SplitByHeadings("   "))
	assert.Equal(t, []string{"\n\t\n"}, SplitByHeadings("\n\t\n"))
}

func TestSplitByHeadings_NoHeadings(t *testing.T) {
	text := "  just some study notes\nspanning two lines  "
	chunks := SplitByHeadings(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(text), chunks[0])
}

func TestSplitByHeadings_TwoSections(t *testing.T) {
	chunks := SplitByHeadings("# Ch2\nintro text\n## Sub\nmore text")

	require.Len(t, chunks, 2)
	assert.Equal(t, "# Ch2\nintro text", chunks[0])
	assert.Equal(t, "## Sub\nmore text", chunks[1])
}

func TestSplitByHeadings_CountMatchesHeadings(t *testing.T) {
	text := "# Fractions\nhalves and quarters\n" +
		"## Adding\nsame denominator first\n" +
		"## Comparing\nuse a number line"

	chunks := SplitByHeadings(text)

	require.Len(t, chunks, 3)
	assert.True(t, strings.HasPrefix(chunks[0], "# Fractions"))
	assert.True(t, strings.HasPrefix(chunks[1], "## Adding"))
	assert.True(t, strings.HasPrefix(chunks[2], "## Comparing"))
}

func TestSplitByHeadings_PreambleBeforeFirstHeading(t *testing.T) {
	chunks := SplitByHeadings("page intro\n# Topic\nbody")

	require.Len(t, chunks, 2)
	assert.Equal(t, "page intro", chunks[0])
	assert.Equal(t, "# Topic\nbody", chunks[1])
}

func TestSplitByHeadings_DeepMarkersAlsoSplit(t *testing.T) {
	// The heading check is literal: any line starting with '#' and longer
	// than the bare marker opens a section, regardless of depth.
	chunks := SplitByHeadings("# A\ntext\n### B\nmore")

	require.Len(t, chunks, 2)
	assert.Equal(t, "### B\nmore", chunks[1])
}

func TestSplitByHeadings_BareMarkerIsNotAHeading(t *testing.T) {
	chunks := SplitByHeadings("intro\n#\nmore")

	require.Len(t, chunks, 1)
	assert.Equal(t, "intro\n#\nmore", chunks[0])
}

func TestSplitByHeadings_IndentedHeading(t *testing.T) {
	chunks := SplitByHeadings("first\n   ## Indented\nsecond")

	require.Len(t, chunks, 2)
	// The original line is kept verbatim inside the chunk.
	assert.Equal(t, "## Indented\nsecond", chunks[1])
}

func TestSplitByHeadings_EmptySectionsDropped(t *testing.T) {
	// A heading directly followed by another heading still yields a chunk
	// for each; whitespace-only accumulations between them are dropped.
	chunks := SplitByHeadings("# One\n# Two\nbody")

	require.Len(t, chunks, 2)
	assert.Equal(t, "# One", chunks[0])
	assert.Equal(t, "# Two\nbody", chunks[1])
}
