package chunker

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// SplitBySentences groups consecutive sentences into buckets of at most
// maxSentences, rejoining each bucket with ". " and a trailing period. The
// final partial bucket is emitted even when under the limit.
func SplitBySentences(text string, maxSentences int) []string {
	if pass, ok := passthrough(text); ok {
		return pass
	}

	var sentences []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = trimmed(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	var chunks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, ". ")+".")
		current = nil
	}

	for _, sentence := range sentences {
		current = append(current, sentence)
		if len(current) >= maxSentences {
			flush()
		}
	}
	flush()

	return chunks
}

// SplitByParagraphs groups blank-line-delimited paragraphs into buckets of at
// most maxParagraphs, rejoined with a blank line.
func SplitByParagraphs(text string, maxParagraphs int) []string {
	if pass, ok := passthrough(text); ok {
		return pass
	}

	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = trimmed(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	if len(paragraphs) == 0 {
		return []string{text}
	}

	var chunks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, "\n\n"))
		current = nil
	}

	for _, para := range paragraphs {
		current = append(current, para)
		if len(current) >= maxParagraphs {
			flush()
		}
	}
	flush()

	return chunks
}
