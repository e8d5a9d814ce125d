package service

import (
	"context"
	"io"
	"sync"

	"chat-relay-service/internal/eventstream"
	"chat-relay-service/internal/llm"
)

// RelayState tracks one request through the relay
type RelayState int

const (
	StateAwaitingUpstreamHeaders RelayState = iota
	StateStreaming
	StateClosed
	StateFailed
)

// ------------------------------------------------------------------------------------------------------
func (s RelayState) String() string {
	switch s {
	case StateAwaitingUpstreamHeaders:
		return "AWAITING_UPSTREAM_HEADERS"
	case StateStreaming:
		return "STREAMING"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Relay yields the text increments of one upstream reply. A Relay is owned by
// the goroutine serving its request.
type Relay struct {
	state      RelayState
	body       io.ReadCloser
	stream     *eventstream.Stream
	increments int
	bytes      int
	closeOnce  sync.Once
	closeErr   error
}

// ------------------------------------------------------------------------------------------------------
func newRelay() *Relay {
	return &Relay{state: StateAwaitingUpstreamHeaders}
}

// ------------------------------------------------------------------------------------------------------
// open issues the outbound request. Any failure moves the relay to FAILED.
func (r *Relay) open(ctx context.Context, client llm.Client, apiKey string, req llm.ChatRequest) error {
	body, err := client.OpenStream(ctx, apiKey, req)
	if err != nil {
		r.state = StateFailed
		return err
	}

	r.body = body
	r.stream = eventstream.NewStream(body)
	r.state = StateStreaming
	return nil
}

// ------------------------------------------------------------------------------------------------------
// Next returns the next text increment. It returns io.EOF once the upstream
// finished, or the read error that ended the stream (for example the context
// error after the caller went away). The upstream body is released as soon
// as the stream ends.
func (r *Relay) Next() (string, error) {
	if r.state != StateStreaming {
		return "", io.EOF
	}

	text, err := r.stream.Next()
	if err != nil {
		r.state = StateClosed
		_ = r.Close()
		return "", err
	}

	r.increments++
	r.bytes += len(text)
	return text, nil
}

// ------------------------------------------------------------------------------------------------------
// Close releases the upstream connection. Safe to call more than once.
func (r *Relay) Close() error {
	r.closeOnce.Do(func() {
		if r.state == StateStreaming {
			r.state = StateClosed
		}
		if r.body != nil {
			r.closeErr = r.body.Close()
		}
	})
	return r.closeErr
}

// ------------------------------------------------------------------------------------------------------
func (r *Relay) State() RelayState {
	return r.state
}

// ------------------------------------------------------------------------------------------------------
// Completed reports whether the upstream ended the stream with the sentinel
func (r *Relay) Completed() bool {
	return r.stream != nil && r.stream.Done()
}

// ------------------------------------------------------------------------------------------------------
// Stats returns the number of increments and bytes forwarded so far
func (r *Relay) Stats() (increments, bytes int) {
	return r.increments, r.bytes
}
