package eventstream

import (
	"io"
)

const defaultReadSize = 32 * 1024

// Stream pulls bytes from an upstream reader on demand and yields one text
// increment per call to Next. It is finite and cannot be restarted.
type Stream struct {
	r       io.Reader
	dec     *Decoder
	readBuf []byte
	pending []string
	err     error
}

// Option configures a Stream
type Option func(*Stream)

// ------------------------------------------------------------------------------------------------------
// WithReadSize sets the size of each read from the upstream reader
func WithReadSize(n int) Option {
	return func(s *Stream) {
		if n > 0 {
			s.readBuf = make([]byte, n)
		}
	}
}

// ------------------------------------------------------------------------------------------------------
func NewStream(r io.Reader, opts ...Option) *Stream {
	s := &Stream{
		r:   r,
		dec: NewDecoder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.readBuf == nil {
		s.readBuf = make([]byte, defaultReadSize)
	}
	return s
}

// ------------------------------------------------------------------------------------------------------
// Next returns the next text increment. It returns io.EOF after the sentinel
// frame or at the end of the reader; bytes of an unterminated trailing frame
// are dropped. Any other read error is returned unchanged.
func (s *Stream) Next() (string, error) {
	for {
		if len(s.pending) > 0 {
			text := s.pending[0]
			s.pending = s.pending[1:]
			return text, nil
		}

		if s.err != nil {
			return "", s.err
		}

		if s.dec.Done() {
			s.err = io.EOF
			continue
		}

		n, err := s.r.Read(s.readBuf)
		if n > 0 {
			s.pending = s.dec.Feed(s.readBuf[:n])
		}
		if err != nil {
			s.err = err
		}
	}
}

// ------------------------------------------------------------------------------------------------------
// Done reports whether the upstream sent the sentinel
func (s *Stream) Done() bool {
	return s.dec.Done()
}
