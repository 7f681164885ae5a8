// Package chunker splits educational documents into retrieval-sized pieces.
// All functions are pure and operate on in-memory strings; a Chunker is
// stateless and safe for concurrent use across documents.
package chunker

import "log/slog"

// Strategy selects how content is split.
type Strategy string

const (
	StrategyHeadings   Strategy = "headings"
	StrategyAdvanced   Strategy = "advanced"
	StrategySentences  Strategy = "sentences"
	StrategyParagraphs Strategy = "paragraphs"
)

const (
	DefaultMaxChunkSize  = 1000
	DefaultOverlapSize   = 100
	DefaultMaxSentences  = 5
	DefaultMaxParagraphs = 3
)

// Options configures the per-strategy limits.
type Options struct {
	// MaxChunkSize is the character budget for the advanced strategy.
	MaxChunkSize int

	// OverlapSize is the trailing context carried into the next sub-chunk
	// when the advanced strategy splits an oversized segment.
	OverlapSize int

	// MaxSentences is the bucket size for the sentences strategy.
	MaxSentences int

	// MaxParagraphs is the bucket size for the paragraphs strategy.
	MaxParagraphs int
}

func DefaultOptions() Options {
	return Options{
		MaxChunkSize:  DefaultMaxChunkSize,
		OverlapSize:   DefaultOverlapSize,
		MaxSentences:  DefaultMaxSentences,
		MaxParagraphs: DefaultMaxParagraphs,
	}
}

// Chunker is the single entry point the ingestion pipeline uses to chunk
// content by strategy name.
type Chunker struct {
	opts   Options
	logger *slog.Logger
}

func New() *Chunker {
	return NewWithOptions(DefaultOptions())
}

func NewWithOptions(opts Options) *Chunker {
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = DefaultMaxChunkSize
	}
	if opts.OverlapSize < 0 {
		opts.OverlapSize = DefaultOverlapSize
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	if opts.MaxParagraphs <= 0 {
		opts.MaxParagraphs = DefaultMaxParagraphs
	}
	return &Chunker{
		opts:   opts,
		logger: slog.Default(),
	}
}

// Chunk splits content using the named strategy. An unrecognized strategy is
// not an error: it is logged and the headings strategy is used instead.
func (c *Chunker) Chunk(content string, strategy Strategy) []string {
	switch strategy {
	case StrategyHeadings:
		return SplitByHeadings(content)
	case StrategyAdvanced:
		return SplitWithLimit(content, c.opts.MaxChunkSize, c.opts.OverlapSize)
	case StrategySentences:
		return SplitBySentences(content, c.opts.MaxSentences)
	case StrategyParagraphs:
		return SplitByParagraphs(content, c.opts.MaxParagraphs)
	default:
		c.logger.Warn("unknown chunking strategy, using headings", "strategy", string(strategy))
		return SplitByHeadings(content)
	}
}

// passthrough handles degenerate input shared by all strategies: empty input
// returns a single empty chunk, whitespace-only input is returned verbatim.
func passthrough(text string) ([]string, bool) {
	if trimmed(text) != "" {
		return nil, false
	}
	if text == "" {
		return []string{""}, true
	}
	return []string{text}, true
}
