package chunker

import "strings"

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// isHeadingLine reports whether a line opens a new section. The check is
// deliberately literal: the trimmed line starts with '#' and is longer than a
// bare marker. Heading depth is not inspected.
func isHeadingLine(line string) bool {
	t := trimmed(line)
	return strings.HasPrefix(t, "#") && len(t) > 1
}

// SplitByHeadings splits text into segments at markdown heading boundaries.
// Each returned segment starts with its heading line; content before the
// first heading forms its own segment. Text without any headings comes back
// as a single trimmed chunk.
func SplitByHeadings(text string) []string {
	if pass, ok := passthrough(text); ok {
		return pass
	}

	lines := strings.Split(text, "\n")

	var chunks []string
	var current []string

	closeCurrent := func() {
		if len(current) == 0 {
			return
		}
		if content := trimmed(strings.Join(current, "\n")); content != "" {
			chunks = append(chunks, content)
		}
		current = nil
	}

	for _, line := range lines {
		if isHeadingLine(line) {
			closeCurrent()
		}
		current = append(current, line)
	}
	closeCurrent()

	// No headings anywhere: the whole input is one chunk.
	if len(chunks) == 0 {
		return []string{trimmed(text)}
	}

	return chunks
}
