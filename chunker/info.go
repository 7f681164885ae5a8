package chunker

import (
	"fmt"
	"strings"
)

// Info describes one produced chunk.
type Info struct {
	Content   string
	Index     int
	Total     int
	ID        string
	Heading   string // first heading line inside the chunk, if any
	WordCount int
	CharCount int
}

// Describe builds per-chunk information for a produced sequence.
func Describe(chunks []string) []Info {
	infos := make([]Info, 0, len(chunks))
	for i, chunk := range chunks {
		infos = append(infos, Info{
			Content:   chunk,
			Index:     i,
			Total:     len(chunks),
			ID:        fmt.Sprintf("chunk_%d", i),
			Heading:   FirstHeading(chunk),
			WordCount: len(strings.Fields(chunk)),
			CharCount: len(chunk),
		})
	}
	return infos
}

// FirstHeading returns the first heading line found in the chunk, trimmed,
// or an empty string when the chunk has none.
func FirstHeading(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if t := trimmed(line); strings.HasPrefix(t, "#") {
			return t
		}
	}
	return ""
}
