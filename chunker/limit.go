package chunker

import "strings"

// SplitWithLimit chunks text by headings first, then refines any segment
// larger than maxChunkSize. Adjacent sub-chunks produced by a refinement
// share overlapSize characters of trailing context. Every returned chunk is
// at most maxChunkSize characters unless a single indivisible word exceeds
// the limit, in which case it is emitted whole rather than truncated.
func SplitWithLimit(text string, maxChunkSize, overlapSize int) []string {
	if pass, ok := passthrough(text); ok {
		return pass
	}

	var final []string
	for _, chunk := range SplitByHeadings(text) {
		if len(chunk) <= maxChunkSize {
			final = append(final, chunk)
			continue
		}
		final = append(final, splitLargeChunk(chunk, maxChunkSize, overlapSize)...)
	}

	return final
}

// splitLargeChunk breaks an oversized segment down a fallback cascade:
// blank-line paragraphs, then single lines when no blank lines exist, then
// words for a paragraph that alone exceeds the limit. Overlap is seeded only
// at paragraph granularity.
func splitLargeChunk(chunk string, maxSize, overlapSize int) []string {
	if len(chunk) <= maxSize {
		return []string{chunk}
	}

	paragraphs := strings.Split(chunk, "\n\n")
	if len(paragraphs) == 1 {
		// No paragraph breaks, split on single newlines instead.
		paragraphs = strings.Split(chunk, "\n")
	}

	var subChunks []string
	current := ""

	for _, para := range paragraphs {
		if len(current)+len(para)+2 > maxSize { // +2 for the joining blank line
			if current != "" {
				subChunks = append(subChunks, trimmed(current))

				// Seed the next buffer with trailing context from the one
				// just flushed.
				if overlapSize > 0 && len(current) > overlapSize {
					current = current[len(current)-overlapSize:] + "\n\n" + para
				} else {
					current = para
				}
			} else if len(para) > maxSize {
				// A single paragraph exceeds the limit: pack its words.
				words := strings.Split(para, " ")
				temp := ""
				for _, word := range words {
					if len(temp)+len(word)+1 > maxSize {
						if temp != "" {
							subChunks = append(subChunks, trimmed(temp))
							temp = word
						} else {
							// A lone word longer than the limit goes out
							// unsplit; dropping content would be worse.
							subChunks = append(subChunks, word)
							temp = ""
						}
					} else if temp != "" {
						temp += " " + word
					} else {
						temp = word
					}
				}
				if temp != "" {
					current = temp
				}
			} else {
				current = para
			}
		} else if current != "" {
			current += "\n\n" + para
		} else {
			current = para
		}
	}

	if current != "" {
		subChunks = append(subChunks, trimmed(current))
	}

	return subChunks
}
