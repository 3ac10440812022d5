// Package ui provides a minimal terminal transport for a playback session:
// a progress bar, the chunk being spoken, and keyboard controls. All
// playback logic lives in the controller; this is strictly a view.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/readaloud/tts"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	chunkStyle  = lipgloss.NewStyle().PaddingLeft(2)
	statusStyle = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().Faint(true).PaddingTop(1)
)

// Model is the Bubble Tea model wrapping one playback session.
type Model struct {
	ctrl   *tts.Controller
	events chan tea.Msg

	bar      progress.Model
	state    tts.Progress
	voices   []tts.Voice
	voiceIdx int

	title string
	words int
	width int
	done  bool
}

// NewPlayer creates the transport view for an already-loaded controller.
func NewPlayer(ctrl *tts.Controller, events chan tea.Msg, title string) Model {
	words := 0
	for _, c := range ctrl.Chunks() {
		words += len(strings.Fields(c.Text))
	}
	return Model{
		ctrl:   ctrl,
		events: events,
		bar:    progress.New(progress.WithDefaultGradient()),
		title:  title,
		words:  words,
		width:  80,
	}
}

// Init starts listening for controller events.
func (m Model) Init() tea.Cmd {
	return tts.WaitForEvent(m.events)
}

// Update handles keyboard transport controls and controller events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		return m, nil

	case tts.ProgressMsg:
		m.state = tts.Progress(msg)
		return m, tts.WaitForEvent(m.events)

	case tts.CompletedMsg:
		m.done = true
		return m, tts.WaitForEvent(m.events)

	case tts.VoicesMsg:
		m.voices = msg.Voices
		for i, v := range m.voices {
			if v.Name == msg.Selected {
				m.voiceIdx = i
				break
			}
		}
		return m, tts.WaitForEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.Close()
		return m, tea.Quit

	case " ":
		if m.state.IsPlaying {
			m.ctrl.Pause()
		} else {
			m.done = false
			m.ctrl.Play()
		}

	case "right", "l":
		m.ctrl.SkipForward(0)

	case "left", "h":
		m.ctrl.SkipBackward(0)

	case "r":
		m.ctrl.CycleRate()

	case "v":
		if len(m.voices) > 0 {
			m.voiceIdx = (m.voiceIdx + 1) % len(m.voices)
			m.ctrl.SetVoice(m.voices[m.voiceIdx].Name)
		}

	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		pct := float64(msg.String()[0]-'0') * 10
		m.ctrl.SeekToPercent(pct)
	}
	return m, nil
}

// View renders the transport.
func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%s · %s words", m.title, humanize.Comma(int64(m.words)))
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	chunks := m.ctrl.Chunks()
	if m.state.ChunkIndex < len(chunks) {
		text := chunks[m.state.ChunkIndex].Text
		b.WriteString(chunkStyle.Render(wordwrap.String(text, m.width-4)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.bar.ViewAs(m.state.Percent / 100))
	b.WriteString("\n")

	status := fmt.Sprintf("%s / %s · %.2fx · chunk %d/%d · %s",
		clock(m.state.Position), clock(m.state.Total),
		m.state.Rate,
		m.state.ChunkIndex+1, m.state.ChunkCount,
		statusWord(m.state, m.done),
	)
	b.WriteString(statusStyle.Render(status))

	b.WriteString(helpStyle.Render(
		"\nspace play/pause · ←/→ skip · r rate · v voice · 0-9 seek · q quit"))
	b.WriteString("\n")

	return b.String()
}

func statusWord(p tts.Progress, done bool) string {
	switch {
	case done:
		return "finished"
	case p.IsPlaying:
		return "playing"
	case p.IsPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// clock formats seconds as m:ss or h:mm:ss.
func clock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	h, m, s := sec/3600, (sec/60)%60, sec%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
