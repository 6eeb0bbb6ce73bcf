package chunker

import (
	"fmt"
	"unicode"

	"github.com/dgallion1/docsum/internal/doctree"
)

// Strategy names a way of cutting text into model-sized chunks.
type Strategy string

const (
	// StrategyFixed slices at fixed character offsets, ignoring word boundaries.
	StrategyFixed Strategy = "fixed"
	// StrategySentence packs whole paragraphs and sentences up to the size.
	StrategySentence Strategy = "sentence"
)

// DefaultSize is the chunk length in characters.
const DefaultSize = 1000

// Config controls chunking behavior.
type Config struct {
	Size     int      // Maximum chunk length in characters (runes).
	Strategy Strategy // Defaults to StrategyFixed.
}

// DefaultConfig returns the fixed 1000-character split.
func DefaultConfig() Config {
	return Config{Size: DefaultSize, Strategy: StrategyFixed}
}

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyFixed, StrategySentence:
		return s, nil
	case "":
		return StrategyFixed, nil
	default:
		return "", fmt.Errorf("unknown chunking strategy %q (want fixed or sentence)", name)
	}
}

// Split cuts text according to cfg.
func Split(text string, cfg Config) []doctree.Chunk {
	if cfg.Strategy == StrategySentence {
		return Sentences(text, cfg.Size)
	}
	return Fixed(text, cfg.Size)
}

// Fixed returns text[0:size], text[size:2*size], ... measured in runes. The
// chunks cover the input exactly; only the last may be shorter.
func Fixed(text string, size int) []doctree.Chunk {
	if size <= 0 {
		size = DefaultSize
	}
	runes := []rune(text)
	var chunks []doctree.Chunk
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, doctree.Chunk{
			Text:  string(runes[start:end]),
			Index: len(chunks),
			Start: start,
			End:   end,
		})
	}
	return chunks
}

// Sentences packs paragraphs, then sentences, into chunks of at most size
// runes. A sentence longer than size is hard-split at fixed offsets. Only
// whitespace between units is dropped; chunk text is the source slice.
func Sentences(text string, size int) []doctree.Chunk {
	if size <= 0 {
		size = DefaultSize
	}
	runes := []rune(text)

	var units []span
	for _, para := range paragraphSpans(runes) {
		if para.len() <= size {
			units = append(units, para)
			continue
		}
		for _, sent := range sentenceSpans(runes, para) {
			units = append(units, hardSplit(sent, size)...)
		}
	}

	var chunks []doctree.Chunk
	emit := func(s span) {
		chunks = append(chunks, doctree.Chunk{
			Text:  string(runes[s.start:s.end]),
			Index: len(chunks),
			Start: s.start,
			End:   s.end,
		})
	}

	var current span
	open := false
	for _, u := range units {
		if open && u.end-current.start <= size {
			current.end = u.end
			continue
		}
		if open {
			emit(current)
		}
		current, open = u, true
	}
	if open {
		emit(current)
	}
	return chunks
}

type span struct{ start, end int }

func (s span) len() int { return s.end - s.start }

// appendTrimmed trims whitespace off both ends of s and keeps it if non-empty.
func appendTrimmed(out []span, runes []rune, s span) []span {
	for s.start < s.end && unicode.IsSpace(runes[s.start]) {
		s.start++
	}
	for s.end > s.start && unicode.IsSpace(runes[s.end-1]) {
		s.end--
	}
	if s.len() > 0 {
		out = append(out, s)
	}
	return out
}

// paragraphSpans splits on blank lines.
func paragraphSpans(runes []rune) []span {
	var out []span
	start := 0
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] != '\n' || runes[i+1] != '\n' {
			continue
		}
		out = appendTrimmed(out, runes, span{start, i})
		j := i
		for j < len(runes) && runes[j] == '\n' {
			j++
		}
		start = j
		i = j - 1
	}
	return appendTrimmed(out, runes, span{start, len(runes)})
}

// sentenceSpans ends a sentence at '.', '!' or '?' followed by whitespace.
func sentenceSpans(runes []rune, para span) []span {
	var out []span
	start := para.start
	for i := para.start; i+1 < para.end; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if unicode.IsSpace(runes[i+1]) {
				out = appendTrimmed(out, runes, span{start, i + 1})
				start = i + 1
			}
		}
	}
	return appendTrimmed(out, runes, span{start, para.end})
}

func hardSplit(s span, size int) []span {
	if s.len() <= size {
		return []span{s}
	}
	var out []span
	for start := s.start; start < s.end; start += size {
		out = append(out, span{start, min(start+size, s.end)})
	}
	return out
}
