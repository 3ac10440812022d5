package tts_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/readaloud/tts"
)

func TestForwardHooksDeliversMessages(t *testing.T) {
	ch := make(chan tea.Msg, 4)
	store := &memStore{}
	h := tts.ForwardHooks(ch, store)

	h.OnProgress(tts.Progress{Position: 3, Total: 10})
	h.OnComplete()
	h.OnVoices("Aria", []tts.Voice{{Name: "Aria"}})
	h.OnCheckpoint(3, 10)

	if msg, ok := (<-ch).(tts.ProgressMsg); !ok || msg.Position != 3 {
		t.Errorf("first message = %+v, want ProgressMsg{Position: 3}", msg)
	}
	if _, ok := (<-ch).(tts.CompletedMsg); !ok {
		t.Error("second message should be CompletedMsg")
	}
	if msg, ok := (<-ch).(tts.VoicesMsg); !ok || msg.Selected != "Aria" || len(msg.Voices) != 1 {
		t.Errorf("third message = %+v", msg)
	}

	// Checkpoints go to the store, not onto the channel.
	if pos, ok := store.Checkpoint(); !ok || pos != 3 {
		t.Errorf("checkpoint = %d %v, want 3", pos, ok)
	}
	select {
	case msg := <-ch:
		t.Errorf("unexpected extra message %+v", msg)
	default:
	}
}

func TestForwardHooksNeverBlocks(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	h := tts.ForwardHooks(ch, nil)

	// Fill the channel, then keep emitting. A slow consumer drops events
	// instead of stalling the caller.
	for i := 0; i < 10; i++ {
		h.OnProgress(tts.Progress{Position: i})
	}

	msg := <-ch
	if p, ok := msg.(tts.ProgressMsg); !ok || p.Position != 0 {
		t.Errorf("surviving message = %+v, want the first progress event", msg)
	}
}

func TestForwardHooksNeverDropsCompletion(t *testing.T) {
	ch := make(chan tea.Msg, 2)
	h := tts.ForwardHooks(ch, nil)

	// Saturate the buffer with progress, then complete. The completion
	// must land even though the buffer was full when it was emitted.
	for i := 0; i < 5; i++ {
		h.OnProgress(tts.Progress{Position: i})
	}
	h.OnComplete()

	var found bool
drain:
	for {
		select {
		case msg := <-ch:
			if _, ok := msg.(tts.CompletedMsg); ok {
				found = true
			}
		default:
			break drain
		}
	}
	if !found {
		t.Fatal("CompletedMsg was dropped by a full channel")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	ch <- tts.CompletedMsg{}

	cmd := tts.WaitForEvent(ch)
	if _, ok := cmd().(tts.CompletedMsg); !ok {
		t.Error("WaitForEvent should deliver the queued message")
	}
}
