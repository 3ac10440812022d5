package chunker_test

import (
	"reflect"
	"testing"

	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/chunker"
)

func newSplitter() *chunker.Splitter {
	return chunker.New(tts.DefaultPauseConfig())
}

func TestSplitMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tts.Chunk
	}{
		{
			name:  "heading then paragraph",
			input: "# Title\n\nHello world.",
			want: []tts.Chunk{
				{Text: "Title", Type: tts.ChunkH1, PauseAfter: 800},
				{Text: "Hello world.", Type: tts.ChunkParagraph, PauseAfter: 600},
			},
		},
		{
			name:  "heading levels",
			input: "# one\n## two\n### three\n#### four",
			want: []tts.Chunk{
				{Text: "one", Type: tts.ChunkH1, PauseAfter: 800},
				{Text: "two", Type: tts.ChunkH2, PauseAfter: 650},
				{Text: "three", Type: tts.ChunkH3, PauseAfter: 500},
				{Text: "four", Type: tts.ChunkH4, PauseAfter: 400},
			},
		},
		{
			name:  "deep headings read like h4",
			input: "##### five\n###### six",
			want: []tts.Chunk{
				{Text: "five", Type: tts.ChunkH4, PauseAfter: 400},
				{Text: "six", Type: tts.ChunkH4, PauseAfter: 400},
			},
		},
		{
			name:  "list items",
			input: "- first\n* second\n+ third\n2. fourth",
			want: []tts.Chunk{
				{Text: "first", Type: tts.ChunkListItem, PauseAfter: 250},
				{Text: "second", Type: tts.ChunkListItem, PauseAfter: 250},
				{Text: "third", Type: tts.ChunkListItem, PauseAfter: 250},
				{Text: "fourth", Type: tts.ChunkListItem, PauseAfter: 250},
			},
		},
		{
			name:  "blockquote",
			input: "> quoted line",
			want: []tts.Chunk{
				{Text: "quoted line", Type: tts.ChunkBlockquote, PauseAfter: 600},
			},
		},
		{
			name:  "horizontal rules and blanks skipped",
			input: "before\n\n---\n* * *\n___\n\nafter",
			want: []tts.Chunk{
				{Text: "before", Type: tts.ChunkParagraph, PauseAfter: 600},
				{Text: "after", Type: tts.ChunkParagraph, PauseAfter: 600},
			},
		},
		{
			name:  "inline syntax stripped",
			input: "**bold** and *em* and `code` and [link](https://x) and ![alt](y.png)",
			want: []tts.Chunk{
				{Text: "bold and em and code and link and alt", Type: tts.ChunkParagraph, PauseAfter: 600},
			},
		},
		{
			name:  "line that strips to nothing is dropped",
			input: "![](decoration.png)\nkept",
			want: []tts.Chunk{
				{Text: "kept", Type: tts.ChunkParagraph, PauseAfter: 600},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []tts.Chunk{},
		},
	}

	s := newSplitter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Split(tt.input, chunker.SourceMarkdown)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestSplitPlain(t *testing.T) {
	s := newSplitter()

	input := "line one\nline two\n\npara two"
	got := s.Split(input, chunker.SourcePlain)
	want := []tts.Chunk{
		{Text: "line one", Type: tts.ChunkNewline, PauseAfter: 150},
		{Text: "line two", Type: tts.ChunkParagraph, PauseAfter: 600},
		{Text: "para two", Type: tts.ChunkParagraph, PauseAfter: 600},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %+v\nwant %+v", got, want)
	}
}

func TestSplitPlainNormalizesWhitespace(t *testing.T) {
	s := newSplitter()

	got := s.Split("  spaced   out\ttext  \r\n\r\nnext", chunker.SourcePlain)
	want := []tts.Chunk{
		{Text: "spaced out text", Type: tts.ChunkParagraph, PauseAfter: 600},
		{Text: "next", Type: tts.ChunkParagraph, PauseAfter: 600},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %+v\nwant %+v", got, want)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	s := newSplitter()
	input := "# Heading\n\nSome **text** here.\n\n- item one\n- item two\n\n> a quote"

	first := s.Split(input, chunker.SourceMarkdown)
	second := s.Split(input, chunker.SourceMarkdown)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Split differs:\n%+v\n%+v", first, second)
	}
}

func TestSplitNeverEmitsEmptyChunks(t *testing.T) {
	s := newSplitter()
	inputs := []string{
		"# \n\n   \n\n**\n",
		"text\n\n\n\n\nmore",
		"![](a)![](b)",
		"- \n> \n#",
	}
	for _, input := range inputs {
		for _, kind := range []chunker.SourceKind{chunker.SourceMarkdown, chunker.SourcePlain} {
			for _, c := range s.Split(input, kind) {
				if c.Text == "" {
					t.Errorf("empty chunk from %q (kind %v)", input, kind)
				}
			}
		}
	}
}

func TestSplitPausesFollowProfile(t *testing.T) {
	pauses := tts.DefaultPauseConfig()
	pauses.H1 = pauses.H1 * 2
	s := chunker.New(pauses)

	got := s.Split("# Title", chunker.SourceMarkdown)
	if len(got) != 1 || got[0].PauseAfter != 1600 {
		t.Errorf("Split() = %+v, want H1 pause 1600", got)
	}
}
