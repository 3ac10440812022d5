// Package chunker splits raw text into the ordered chunk sequence the
// playback controller consumes. Splitting is a pure function of the input
// text and source kind: identical input always yields an identical sequence.
package chunker

import (
	"regexp"
	"strings"

	"github.com/dgnsrekt/readaloud/tts"
)

// SourceKind selects the splitting strategy for a piece of content.
type SourceKind int

const (
	// SourceMarkdown treats the input as markdown-like structured text.
	SourceMarkdown SourceKind = iota
	// SourcePlain treats the input as unstructured prose.
	SourcePlain
)

// Splitter turns raw text into typed chunks carrying inter-chunk pauses.
type Splitter struct {
	pauses tts.PauseConfig

	headingRegex    *regexp.Regexp
	listItemRegex   *regexp.Regexp
	blockquoteRegex *regexp.Regexp
	hrRegex         *regexp.Regexp

	imageRegex      *regexp.Regexp
	linkRegex       *regexp.Regexp
	strongRegex     *regexp.Regexp
	emphasisRegex   *regexp.Regexp
	inlineCodeRegex *regexp.Regexp
	spaceRegex      *regexp.Regexp
}

// New creates a splitter using the given pause profile.
func New(pauses tts.PauseConfig) *Splitter {
	return &Splitter{
		pauses: pauses,

		headingRegex:    regexp.MustCompile(`^(#{1,6})\s+(.*)$`),
		listItemRegex:   regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s+(.*)$`),
		blockquoteRegex: regexp.MustCompile(`^\s*>\s*(.*)$`),
		hrRegex:         regexp.MustCompile(`^\s*(?:-(\s*-){2,}|\*(\s*\*){2,}|_(\s*_){2,})\s*$`),

		imageRegex:      regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`),
		linkRegex:       regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`),
		strongRegex:     regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`),
		emphasisRegex:   regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`),
		inlineCodeRegex: regexp.MustCompile("`([^`]*)`"),
		spaceRegex:      regexp.MustCompile(`\s+`),
	}
}

// Split turns raw text into an ordered chunk sequence. Every returned chunk
// has non-empty text; lines that strip down to nothing are dropped.
func (s *Splitter) Split(raw string, kind SourceKind) []tts.Chunk {
	if kind == SourcePlain {
		return s.splitPlain(raw)
	}
	return s.splitMarkdown(raw)
}

// splitMarkdown processes structured input line by line: blank lines and
// horizontal rules are skipped, each remaining line is classified by its
// leading marker, the marker is stripped, and inline markdown syntax is
// removed from what remains.
func (s *Splitter) splitMarkdown(raw string) []tts.Chunk {
	lines := strings.Split(raw, "\n")
	chunks := make([]tts.Chunk, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if s.hrRegex.MatchString(line) {
			continue
		}

		chunkType := tts.ChunkParagraph
		text := line

		if m := s.headingRegex.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			// Deeper headings than H4 read like H4.
			if level > 4 {
				level = 4
			}
			chunkType = tts.ChunkH1 + tts.ChunkType(level-1)
			text = m[2]
		} else if m := s.listItemRegex.FindStringSubmatch(line); m != nil {
			chunkType = tts.ChunkListItem
			text = m[1]
		} else if m := s.blockquoteRegex.FindStringSubmatch(line); m != nil {
			chunkType = tts.ChunkBlockquote
			text = m[1]
		}

		text = s.stripInline(text)
		if text == "" {
			continue
		}

		chunks = append(chunks, tts.Chunk{
			Text:       text,
			Type:       chunkType,
			PauseAfter: s.pauses.For(chunkType),
		})
	}

	return chunks
}

// splitPlain processes unstructured input: blank-line boundaries delimit
// paragraphs, single newlines delimit lines within one. The last line of a
// paragraph carries the paragraph pause; interior lines get the shorter
// same-paragraph pause.
func (s *Splitter) splitPlain(raw string) []tts.Chunk {
	var chunks []tts.Chunk

	for _, para := range splitParagraphs(raw) {
		lines := make([]string, 0, 4)
		for _, line := range strings.Split(para, "\n") {
			line = s.spaceRegex.ReplaceAllString(strings.TrimSpace(line), " ")
			if line != "" {
				lines = append(lines, line)
			}
		}
		for i, line := range lines {
			chunkType := tts.ChunkNewline
			if i == len(lines)-1 {
				chunkType = tts.ChunkParagraph
			}
			chunks = append(chunks, tts.Chunk{
				Text:       line,
				Type:       chunkType,
				PauseAfter: s.pauses.For(chunkType),
			})
		}
	}

	return chunks
}

var blankLineRegex = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs splits on blank-line boundaries.
func splitParagraphs(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	parts := blankLineRegex.Split(normalized, -1)
	paras := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// stripInline removes inline markdown syntax: bold and italic delimiters,
// backticks, and link brackets (link text stays, URL goes).
func (s *Splitter) stripInline(text string) string {
	text = s.imageRegex.ReplaceAllString(text, "$1")
	text = s.linkRegex.ReplaceAllString(text, "$1")
	text = s.strongRegex.ReplaceAllString(text, "$1$2")
	text = s.emphasisRegex.ReplaceAllString(text, "$1$2")
	text = s.inlineCodeRegex.ReplaceAllString(text, "$1")
	text = s.spaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
