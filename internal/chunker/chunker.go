package chunker

import (
	"strings"
	"unicode/utf8"
)

// Config controls splitting behavior. Sizes are measured in runes.
type Config struct {
	ChunkSize    int // Target chunk size.
	ChunkOverlap int // Overlap carried between consecutive chunks.
}

// DefaultConfig returns the splitting defaults used for PDF ingestion.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
	}
}

// defaultSeparators is the ordered candidate list: paragraph break,
// line break, space, then single characters as the last resort.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter recursively splits text into size-bounded overlapping chunks.
// Splitting is deterministic: the same input always yields the same
// chunk sequence.
type Splitter struct {
	cfg        Config
	separators []string
}

// NewSplitter builds a Splitter, normalizing a zero or inconsistent config.
func NewSplitter(cfg Config) *Splitter {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = DefaultConfig().ChunkOverlap
		if cfg.ChunkOverlap >= cfg.ChunkSize {
			cfg.ChunkOverlap = cfg.ChunkSize / 5
		}
	}
	return &Splitter{cfg: cfg, separators: defaultSeparators}
}

// Split breaks text into chunks of at most ChunkSize runes, preferring
// the coarsest separator that keeps pieces within budget and falling
// back to finer ones only for oversize pieces. Adjacent chunks overlap
// by up to ChunkOverlap runes. Every chunk is a trimmed contiguous
// substring of the input. Empty input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	// Pick the first separator present in the text; "" always matches.
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	splits := splitKeepSeparator(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if utf8.RuneCountInString(piece) < s.cfg.ChunkSize {
			good = append(good, piece)
			continue
		}
		// Oversize piece: flush what fits, then recurse with finer
		// separators (or emit as-is when none remain).
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// splitKeepSeparator splits text on sep, keeping each separator attached
// to the piece that follows it, so concatenating the pieces reproduces
// the input exactly. An empty separator splits into single runes.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, 0, len(runes))
		for _, r := range runes {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// merge greedily packs adjacent small pieces into chunks bounded by
// ChunkSize, carrying ChunkOverlap runes of trailing pieces into the
// next chunk so content spanning a boundary stays intact in one chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	flush := func() {
		doc := strings.TrimSpace(strings.Join(window, ""))
		if doc != "" {
			chunks = append(chunks, doc)
		}
	}

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+n > s.cfg.ChunkSize && total > 0 {
			flush()
			// Drop leading pieces until the retained tail fits the
			// overlap budget and leaves room for the next piece.
			for total > s.cfg.ChunkOverlap || (total+n > s.cfg.ChunkSize && total > 0) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += n
	}
	if total > 0 {
		flush()
	}
	return chunks
}
