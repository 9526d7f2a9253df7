package model

import "context"

// TransportKind identifies the upstream transport implementation.
type TransportKind string

const (
	TransportSDK TransportKind = "sdk"
	TransportSSE TransportKind = "sse"
)

// SnapshotCallback is called once per stream event with the full accumulated
// reply text so far (a snapshot, not a delta). Each call's text is a prefix
// extension of the previous call's. Returning an error aborts the stream.
type SnapshotCallback func(snapshot string) error

// Transport abstracts the two upstream protocols behind one capability:
// given a conversation history and a new user message, produce an ordered,
// monotonically growing sequence of text snapshots for the evolving reply.
//
// The interface lives in the model package (not provider) so that provider
// implementations can import model without creating an import cycle.
type Transport interface {
	// StartChat rebuilds the transport's upstream history representation
	// from the full message list of the session being made active. Any
	// in-flight state from a previous session is discarded.
	StartChat(messages []Message)

	// Send streams the reply to text, invoking callback with accumulated
	// snapshots. It returns only after the logical stream (including any
	// tool round trips) has completed or failed.
	Send(ctx context.Context, text string, callback SnapshotCallback) error

	// Kind reports which upstream protocol this transport speaks.
	Kind() TransportKind
}
