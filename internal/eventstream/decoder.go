// Package eventstream decodes the provider's blank-line framed event stream
// into the text increments carried by each frame's JSON payload.
package eventstream

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	// DataPrefix marks the frame line that carries the JSON payload.
	DataPrefix = "data: "
	// Sentinel is the payload that ends the stream.
	Sentinel = "[DONE]"
)

var frameSeparator = []byte("\n\n")

// State is the decoder's lifecycle state
type State int

const (
	StateAccumulating State = iota
	StateDone
)

// ------------------------------------------------------------------------------------------------------
func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "ACCUMULATING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Decoder holds the bytes received but not yet resolved into complete frames.
// A Decoder belongs to a single stream and is not safe for concurrent use.
type Decoder struct {
	buf   []byte
	state State
}

// ------------------------------------------------------------------------------------------------------
func NewDecoder() *Decoder {
	return &Decoder{}
}

// ------------------------------------------------------------------------------------------------------
// Feed appends chunk to the buffer and returns the increments of every frame
// the chunk completed, in frame order. Once the sentinel has been seen Feed
// returns nil and ignores its input.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.state == StateDone {
		return nil
	}

	// Frames are cut on raw bytes; a split multi-byte character stays in the
	// buffer until the rest of its frame arrives.
	d.buf = append(d.buf, chunk...)

	var increments []string
	start := 0
	for {
		idx := bytes.Index(d.buf[start:], frameSeparator)
		if idx < 0 {
			break
		}

		frame := string(d.buf[start : start+idx])
		start += idx + len(frameSeparator)

		payload, ok := framePayload(frame)
		if !ok {
			continue
		}

		if payload == Sentinel {
			d.state = StateDone
			d.buf = nil
			return increments
		}

		if text := extractText(payload); text != "" {
			increments = append(increments, text)
		}
	}

	n := copy(d.buf, d.buf[start:])
	d.buf = d.buf[:n]

	return increments
}

// ------------------------------------------------------------------------------------------------------
func (d *Decoder) Done() bool {
	return d.state == StateDone
}

// ------------------------------------------------------------------------------------------------------
func (d *Decoder) State() State {
	return d.state
}

// ------------------------------------------------------------------------------------------------------
// Buffered reports how many bytes are waiting for a frame separator
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// ------------------------------------------------------------------------------------------------------
// framePayload returns the trimmed payload of the first data line in frame.
func framePayload(frame string) (string, bool) {
	for _, line := range strings.Split(frame, "\n") {
		if strings.HasPrefix(line, DataPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, DataPrefix)), true
		}
	}
	return "", false
}

// ------------------------------------------------------------------------------------------------------
// extractText returns choices[0].delta.content, or "" when the payload is not
// valid JSON or has no such field. Keys are matched exactly and only the path
// to the first choice is decoded, so malformed siblings do not hide the text.
// Keep-alive frames that are not JSON are expected from some providers.
func extractText(payload string) string {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return ""
	}

	var choices []json.RawMessage
	if err := json.Unmarshal(root["choices"], &choices); err != nil || len(choices) == 0 {
		return ""
	}

	var choice map[string]json.RawMessage
	if err := json.Unmarshal(choices[0], &choice); err != nil {
		return ""
	}

	var delta map[string]json.RawMessage
	if err := json.Unmarshal(choice["delta"], &delta); err != nil {
		return ""
	}

	var content string
	if err := json.Unmarshal(delta["content"], &content); err != nil {
		return ""
	}

	return content
}
