package model

// Bubble Tea messages exchanged between commands and the UI shell. Each
// carries the turn identifier it belongs to; the shell drops messages from
// abandoned turns.

// SnapshotMsg carries one accumulated-text snapshot of the in-progress reply.
type SnapshotMsg struct {
	Turn     int
	Snapshot string
}

// StreamDoneMsg signals that a turn's stream completed successfully.
type StreamDoneMsg struct {
	Turn int
}

// StreamErrorMsg signals that a turn failed.
type StreamErrorMsg struct {
	Turn int
	Err  error
}

// ClipboardCopiedMsg reports the outcome of a copy-to-clipboard request.
type ClipboardCopiedMsg struct {
	Err error
}
