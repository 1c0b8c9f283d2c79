/*
Package gzdec decompresses gzip members (RFC 1952) wrapping DEFLATE
streams (RFC 1951) entirely in memory, for programs that need to inflate
embedded assets or files at runtime without a general-purpose compression
library.

The whole compressed member goes in, the whole decompressed payload comes
out:

	out, err := gzdec.Decode(in)

DecodeBounded decodes into a fixed amount of memory instead of growing,
and PeekDecodedSize reads the member's trailing size field for callers
who want to pick that bound. Only the first member of a multi-member
input is decoded, and the CRC32/ISIZE trailer is not verified.
*/
package gzdec

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/driverfury/gzdec/internal/flate"
)

var (
	// ErrInvalidMagic is returned when the input does not start with the
	// gzip signature bytes 0x1f 0x8b.
	ErrInvalidMagic = errors.New("gzdec: invalid gzip magic bytes")
	// ErrUnsupportedMethod is returned when the member uses a compression
	// method other than DEFLATE.
	ErrUnsupportedMethod = errors.New("gzdec: unsupported compression method")
	// ErrMalformed is returned for any DEFLATE-level violation, including
	// truncated input.
	ErrMalformed = flate.ErrMalformed
	// ErrNoSpace is returned by DecodeBounded when the output does not
	// fit in the requested capacity.
	ErrNoSpace = flate.ErrNoSpace
)

const (
	gzipMagic0    = 0x1f
	gzipMagic1    = 0x8b
	methodDeflate = 8

	flagText      = 0x01
	flagHeaderCRC = 0x02
	flagExtra     = 0x04
	flagName      = 0x08
	flagComment   = 0x10

	// A well-formed member is at least a 10-byte header plus the 8-byte
	// CRC32/ISIZE trailer.
	minMemberSize = 18
)

// Decode decompresses the first gzip member of in and returns the payload
// in a buffer owned by the caller. The member's trailing ISIZE field is
// used only to pre-size the buffer; it never bounds the decode.
func Decode(in []byte) ([]byte, error) {
	offset, err := parseHeader(in)
	if err != nil {
		return nil, err
	}
	hint := int(binary.LittleEndian.Uint32(in[len(in)-4:]))
	sink := flate.NewGrowSink(hint)
	if err := flate.Inflate(in[offset:], sink); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// DecodeBounded is Decode with a hard output budget: it allocates exactly
// capacity bytes up front and fails with ErrNoSpace if the payload does
// not fit. No partial output is ever exposed.
func DecodeBounded(in []byte, capacity int) ([]byte, error) {
	offset, err := parseHeader(in)
	if err != nil {
		return nil, err
	}
	sink := flate.NewFixedSink(capacity)
	if err := flate.Inflate(in[offset:], sink); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// PeekDecodedSize reads the trailing 4-byte little-endian ISIZE field of
// a gzip member: the uncompressed size modulo 2^32. It is a hint for
// pre-sizing a DecodeBounded buffer, not a guarantee -- the field is
// attacker-controllable and wraps for payloads of 4 GiB and more.
func PeekDecodedSize(in []byte) (uint32, error) {
	if len(in) < minMemberSize {
		return 0, ErrMalformed
	}
	return binary.LittleEndian.Uint32(in[len(in)-4:]), nil
}

// parseHeader validates the fixed gzip header, skips the optional fields
// selected by the flag byte, and returns the offset of the first DEFLATE
// block. It fails before any Huffman machinery runs.
func parseHeader(in []byte) (int, error) {
	if len(in) < minMemberSize {
		return 0, ErrMalformed
	}
	if in[0] != gzipMagic0 || in[1] != gzipMagic1 {
		return 0, ErrInvalidMagic
	}
	if in[2] != methodDeflate {
		return 0, ErrUnsupportedMethod
	}
	flags := in[3]

	// MTIME, XFL and OS carry nothing the decoder needs.
	pos := 10

	if flags&flagExtra != 0 {
		if pos+2 > len(in) {
			return 0, ErrMalformed
		}
		pos += 2 + int(binary.LittleEndian.Uint16(in[pos:]))
		if pos > len(in) {
			return 0, ErrMalformed
		}
	}
	if flags&flagName != 0 {
		var err error
		if pos, err = skipTerminated(in, pos); err != nil {
			return 0, err
		}
	}
	if flags&flagComment != 0 {
		var err error
		if pos, err = skipTerminated(in, pos); err != nil {
			return 0, err
		}
	}
	if flags&flagHeaderCRC != 0 {
		pos += 2
		if pos > len(in) {
			return 0, ErrMalformed
		}
	}
	return pos, nil
}

// skipTerminated consumes a NUL-terminated field (FNAME or FCOMMENT)
// starting at pos and returns the offset past the terminator.
func skipTerminated(in []byte, pos int) (int, error) {
	i := bytes.IndexByte(in[pos:], 0)
	if i < 0 {
		return 0, ErrMalformed
	}
	return pos + i + 1, nil
}
