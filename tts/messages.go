package tts

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Messages for Bubble Tea communication between the controller and a UI.

// ProgressMsg carries a playback progress snapshot.
type ProgressMsg Progress

// CompletedMsg indicates the final chunk finished speaking.
type CompletedMsg struct{}

// VoicesMsg carries the resolved voice candidates.
type VoicesMsg struct {
	Selected string
	Voices   []Voice
}

// ForwardHooks builds Hooks that forward controller events onto a Bubble Tea
// message channel. Progress sends are non-blocking: a slow consumer drops
// stale snapshots rather than stalling playback. Completion is never dropped;
// a full buffer evicts the oldest queued event instead, so a consumer waiting
// for CompletedMsg always receives it. Checkpointing is the store's concern
// and is not forwarded.
func ForwardHooks(ch chan tea.Msg, store Store) Hooks {
	send := func(msg tea.Msg) {
		select {
		case ch <- msg:
		default:
		}
	}
	sendEvicting := func(msg tea.Msg) {
		for {
			select {
			case ch <- msg:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
	h := Hooks{
		OnProgress: func(p Progress) { send(ProgressMsg(p)) },
		OnComplete: func() { sendEvicting(CompletedMsg{}) },
		OnVoices: func(selected string, all []Voice) {
			send(VoicesMsg{Selected: selected, Voices: all})
		},
	}
	if store != nil {
		h.OnCheckpoint = store.SaveCheckpoint
	}
	return h
}

// WaitForEvent returns a command that delivers the next controller event.
func WaitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
