// Package engine owns one conversation's upstream interaction: transport
// selection happened at construction, history translation is delegated to
// the transport, and each send produces a cancellable stream of growing
// text snapshots.
package engine

import (
	"context"
	"errors"

	"lume/config"
	"lume/model"
)

// ErrNoCredential is returned by SendMessage before any transport is
// opened when no API credential is configured.
var ErrNoCredential = errors.New("no API key configured - set LUME_API_KEY or edit settings.toml")

// Engine drives the send/stream/tool-round-trip protocol for the active
// conversation. It is constructed once at startup and passed explicitly;
// it holds no global state.
type Engine struct {
	cfg       *config.Config
	transport model.Transport
}

// New creates an engine bound to the given transport. transport may be nil
// when no credential is configured; SendMessage then fails fast.
func New(cfg *config.Config, transport model.Transport) *Engine {
	return &Engine{cfg: cfg, transport: transport}
}

// Kind reports the active transport's protocol, or empty when sending is
// disabled.
func (e *Engine) Kind() model.TransportKind {
	if e.transport == nil {
		return ""
	}
	return e.transport.Kind()
}

// StartChat rebuilds the transport-side history for the session being made
// active, discarding any previous in-flight handle state.
func (e *Engine) StartChat(messages []model.Message) {
	if e.transport == nil {
		return
	}
	e.transport.StartChat(messages)
}

// SendMessage opens a turn for text and returns its snapshot stream. It
// fails fast, without any network activity, when no credential is
// configured. Transport-level failures surface through Stream.Err after
// the snapshot channel closes.
func (e *Engine) SendMessage(ctx context.Context, text string) (*Stream, error) {
	if !e.cfg.HasCredential() || e.transport == nil {
		return nil, ErrNoCredential
	}

	ctx, cancel := context.WithCancel(ctx)
	stream := &Stream{
		snapshots: make(chan string),
		done:      make(chan struct{}),
		cancel:    cancel,
	}

	go func() {
		defer close(stream.done)
		defer close(stream.snapshots)
		stream.err = e.transport.Send(ctx, text, func(snapshot string) error {
			select {
			case stream.snapshots <- snapshot:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if config.DebugLog != nil && stream.err != nil {
			config.DebugLog.Printf("[engine] turn failed: %v", stream.err)
		}
	}()

	return stream, nil
}

// Stream is one turn's ordered, finite sequence of accumulated-text
// snapshots. It is not restartable; a new turn gets a new Stream.
type Stream struct {
	snapshots chan string
	cancel    context.CancelFunc

	// done is closed after the producer goroutine has returned from
	// transport.Send. Cancel waits on it so that callers may rebuild
	// transport history immediately afterwards; the transport mutates its
	// history for the whole duration of Send.
	done chan struct{}

	// err is written by the producer goroutine before the channel closes;
	// the close is the happens-before edge that makes Err safe to read
	// once Snapshots is drained.
	err error
}

// Snapshots returns the channel of growing text snapshots. It is closed
// when the turn completes, fails, or is cancelled.
func (s *Stream) Snapshots() <-chan string {
	return s.snapshots
}

// Err reports how the turn ended. Only valid after Snapshots is closed.
func (s *Stream) Err() error {
	return s.err
}

// Cancel abandons the turn and blocks until the producer goroutine has
// returned from the transport. Once Cancel returns it is safe to call
// StartChat on the engine; remaining snapshots are discarded.
func (s *Stream) Cancel() {
	s.cancel()
	<-s.done
}
