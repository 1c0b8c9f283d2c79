package flate

import (
	"bytes"
	"testing"
)

func fill(t *testing.T, s Sink, data string) {
	t.Helper()
	for i := 0; i < len(data); i++ {
		if err := s.WriteByte(data[i]); err != nil {
			t.Fatalf("WriteByte: %v", err)
		}
	}
}

func TestGrowSinkOverlappingCopy(t *testing.T) {
	s := NewGrowSink(0)
	fill(t, s, "ab")
	if err := s.CopyMatch(2, 8); err != nil {
		t.Fatalf("CopyMatch: %v", err)
	}
	if got := string(s.Bytes()); got != "ababababab" {
		t.Fatalf("got %q, want %q", got, "ababababab")
	}
}

func TestGrowSinkCopyBeyondOutput(t *testing.T) {
	s := NewGrowSink(0)
	fill(t, s, "abc")
	if err := s.CopyMatch(4, 1); err != ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
	if err := s.CopyMatch(3, 2); err != nil {
		t.Fatalf("distance equal to length emitted: %v", err)
	}
}

func TestGrowSinkTrimsToFit(t *testing.T) {
	s := NewGrowSink(1024)
	fill(t, s, "xyz")
	out := s.Bytes()
	if len(out) != 3 || cap(out) != 3 {
		t.Fatalf("got len %d cap %d, want exact fit", len(out), cap(out))
	}
	if string(out) != "xyz" {
		t.Fatalf("got %q, want %q", out, "xyz")
	}
}

func TestGrowSinkClampsHostileHint(t *testing.T) {
	// A forged size hint must not force an allocation beyond the clamp.
	s := NewGrowSink(maxSizeHint + 1)
	if s.Len() != 0 {
		t.Fatalf("got len %d, want 0", s.Len())
	}
	fill(t, s, "ok")
	if got := string(s.Bytes()); got != "ok" {
		t.Fatalf("got %q, want %q", got, "ok")
	}
}

func TestFixedSinkCapacityExhausted(t *testing.T) {
	s := NewFixedSink(4)
	fill(t, s, "abcd")
	if err := s.WriteByte('e'); err != ErrNoSpace {
		t.Fatalf("got %v, want ErrNoSpace", err)
	}
	if got := string(s.Bytes()); got != "abcd" {
		t.Fatalf("got %q, want %q", got, "abcd")
	}
}

func TestFixedSinkCopyHitsCapacity(t *testing.T) {
	s := NewFixedSink(5)
	fill(t, s, "ab")
	if err := s.CopyMatch(2, 8); err != ErrNoSpace {
		t.Fatalf("got %v, want ErrNoSpace", err)
	}
}

func TestFixedSinkOverlappingCopy(t *testing.T) {
	s := NewFixedSink(16)
	fill(t, s, "ab")
	if err := s.CopyMatch(2, 8); err != nil {
		t.Fatalf("CopyMatch: %v", err)
	}
	if !bytes.Equal(s.Bytes(), []byte("ababababab")) {
		t.Fatalf("got %q", s.Bytes())
	}
}

func TestFixedSinkNegativeCapacity(t *testing.T) {
	s := NewFixedSink(-1)
	if err := s.WriteByte('a'); err != ErrNoSpace {
		t.Fatalf("got %v, want ErrNoSpace", err)
	}
}
