package espeak

import (
	"context"
	"reflect"
	"testing"

	"github.com/dgnsrekt/readaloud/tts"
)

func TestArgs(t *testing.T) {
	e := &Engine{cfg: tts.DefaultEspeakConfig()} // base 175 wpm

	tests := []struct {
		name string
		req  tts.SpeakRequest
		want []string
	}{
		{
			name: "defaults",
			req:  tts.SpeakRequest{Text: "hello", Rate: 1.0, Pitch: 1.0},
			want: []string{"-s", "175", "-p", "50", "--", "hello"},
		},
		{
			name: "rate scales speed",
			req:  tts.SpeakRequest{Text: "hello", Rate: 2.0, Pitch: 1.0},
			want: []string{"-s", "350", "-p", "50", "--", "hello"},
		},
		{
			name: "voice flag",
			req:  tts.SpeakRequest{Text: "hello", Rate: 1.0, Pitch: 1.0, Voice: "en-us"},
			want: []string{"-s", "175", "-p", "50", "-v", "en-us", "--", "hello"},
		},
		{
			name: "zero rate and pitch fall back",
			req:  tts.SpeakRequest{Text: "hello"},
			want: []string{"-s", "175", "-p", "50", "--", "hello"},
		},
		{
			name: "pitch clamps to engine range",
			req:  tts.SpeakRequest{Text: "hello", Rate: 1.0, Pitch: 3.0},
			want: []string{"-s", "175", "-p", "99", "--", "hello"},
		},
		{
			name: "dashes in text are not flags",
			req:  tts.SpeakRequest{Text: "-v trick", Rate: 1.0, Pitch: 1.0},
			want: []string{"-s", "175", "-p", "50", "--", "-v trick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.args(tt.req)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseVoices(t *testing.T) {
	out := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      afrikaans          gmw/af
 5  en-US           --/M      english-us         gmw/en-US            (en-r 5)(en 3)
 2  en-GB           --/M      english            gmw/en
malformed line
`
	got := parseVoices(out)
	want := []tts.Voice{
		{Name: "afrikaans", Language: "af", Local: true},
		{Name: "english-us", Language: "en-US", Local: true},
		{Name: "english", Language: "en-GB", Local: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseVoices() = %+v\nwant %+v", got, want)
	}
}

func TestParseVoicesEmptyOutput(t *testing.T) {
	if got := parseVoices(""); len(got) != 0 {
		t.Errorf("parseVoices(\"\") = %+v, want none", got)
	}
}

func TestClassify(t *testing.T) {
	if got := classify(context.DeadlineExceeded); got != tts.ErrCodeSynthesis {
		t.Errorf("classify(deadline) = %q, want %q", got, tts.ErrCodeSynthesis)
	}
	if got := classify(context.Canceled); got != tts.ErrCodeSynthesis {
		t.Errorf("classify(other) = %q, want %q", got, tts.ErrCodeSynthesis)
	}
}

func TestClampPitch(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {50, 50}, {99, 99}, {150, 99},
	}
	for _, tt := range tests {
		if got := clampPitch(tt.in); got != tt.want {
			t.Errorf("clampPitch(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
