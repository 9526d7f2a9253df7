package ui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"lume/engine"
	"lume/model"
)

// streamOpenedMsg hands the opened snapshot stream back to the update loop.
type streamOpenedMsg struct {
	turn   int
	stream *engine.Stream
}

// openTurn asks the engine for a snapshot stream. A missing credential (or
// any other immediate failure) surfaces as a StreamErrorMsg before any
// network activity.
func openTurn(eng *engine.Engine, turn int, text string) tea.Cmd {
	return func() tea.Msg {
		stream, err := eng.SendMessage(context.Background(), text)
		if err != nil {
			return model.StreamErrorMsg{Turn: turn, Err: err}
		}
		return streamOpenedMsg{turn: turn, stream: stream}
	}
}

// awaitSnapshot delivers the next snapshot from the stream, or the turn's
// terminal message once the stream closes.
func awaitSnapshot(turn int, stream *engine.Stream) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-stream.Snapshots()
		if !ok {
			if err := stream.Err(); err != nil {
				return model.StreamErrorMsg{Turn: turn, Err: err}
			}
			return model.StreamDoneMsg{Turn: turn}
		}
		return model.SnapshotMsg{Turn: turn, Snapshot: snapshot}
	}
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return model.ClipboardCopiedMsg{Err: clipboard.WriteAll(text)}
	}
}
