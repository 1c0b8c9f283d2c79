package flate

// Sink accumulates decoded output. Back-references re-read the sink's own
// bytes, so the sink is also the LZ77 window; CopyMatch is bounds-checked
// against the logical length and copies forward one byte at a time so
// overlapping copies (distance < length) reproduce runs.
type Sink interface {
	WriteByte(b byte) error
	CopyMatch(distance, length int) error
	Len() int
	Bytes() []byte
}

// maxSizeHint caps how much memory an untrusted size hint may pre-allocate.
// A growable sink still grows past it for streams that genuinely need to.
const maxSizeHint = 64 << 20

// fixedSink writes into a buffer allocated once up front and refuses to
// grow. Any write past the capacity fails the whole decode with
// ErrNoSpace, and the partially filled buffer is never handed out.
type fixedSink struct {
	buf []byte
	n   int
}

// NewFixedSink returns a sink bounded to capacity bytes.
func NewFixedSink(capacity int) Sink {
	if capacity < 0 {
		capacity = 0
	}
	return &fixedSink{buf: make([]byte, capacity)}
}

func (s *fixedSink) WriteByte(b byte) error {
	if s.n >= len(s.buf) {
		return ErrNoSpace
	}
	s.buf[s.n] = b
	s.n++
	return nil
}

func (s *fixedSink) CopyMatch(distance, length int) error {
	if distance <= 0 || distance > s.n {
		return ErrMalformed
	}
	for ; length > 0; length-- {
		if err := s.WriteByte(s.buf[s.n-distance]); err != nil {
			return err
		}
	}
	return nil
}

func (s *fixedSink) Len() int { return s.n }

func (s *fixedSink) Bytes() []byte { return s.buf[:s.n] }

// growSink grows by amortized doubling via append. Bytes trims the result
// to the exact emitted length before handing ownership to the caller.
type growSink struct {
	buf []byte
}

// NewGrowSink returns an unbounded sink. sizeHint pre-sizes the buffer
// and is not trusted: it is clamped and never relaxes any bounds check.
func NewGrowSink(sizeHint int) Sink {
	if sizeHint < 0 {
		sizeHint = 0
	}
	if sizeHint > maxSizeHint {
		sizeHint = maxSizeHint
	}
	return &growSink{buf: make([]byte, 0, sizeHint)}
}

func (s *growSink) WriteByte(b byte) error {
	s.buf = append(s.buf, b)
	return nil
}

func (s *growSink) CopyMatch(distance, length int) error {
	// The source index is recomputed every iteration: an append mid-copy
	// may move the backing array, and distance may exceed the physical
	// capacity the buffer had before growing.
	if distance <= 0 || distance > len(s.buf) {
		return ErrMalformed
	}
	for ; length > 0; length-- {
		s.buf = append(s.buf, s.buf[len(s.buf)-distance])
	}
	return nil
}

func (s *growSink) Len() int { return len(s.buf) }

func (s *growSink) Bytes() []byte {
	if cap(s.buf) > len(s.buf) {
		out := make([]byte, len(s.buf))
		copy(out, s.buf)
		return out
	}
	return s.buf
}
