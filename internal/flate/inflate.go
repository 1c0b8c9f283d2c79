// Package flate decodes DEFLATE (RFC 1951) streams held entirely in
// memory. The decoder is a pure function over one input buffer: it keeps
// no package-level state, so independent calls are safe to run in
// parallel.
package flate

import "errors"

var (
	// ErrMalformed is returned for any DEFLATE-level violation: a bad
	// block type, a stored-block length mismatch, an invalid Huffman
	// code or table, a back-reference past the emitted output, or a
	// truncated stream. No partial result is recoverable past it.
	ErrMalformed = errors.New("flate: malformed stream")
	// ErrNoSpace is returned when a bounded sink runs out of capacity.
	ErrNoSpace = errors.New("flate: output capacity exhausted")
)

// lengthBase holds the base copy lengths for codes 265-284; codes below
// that are direct and 285 is the fixed value 258 (RFC 1951 section 3.2.5).
var lengthBase = [20]int{
	11, 13, 15, 17, 19, 23, 27,
	31, 35, 43, 51, 59, 67, 83,
	99, 115, 131, 163, 195, 227,
}

func resolveLength(code int, br *bitReader) (int, error) {
	switch {
	case code < 257 || code > 285:
		return 0, ErrMalformed
	case code == 285:
		return 258, nil
	case code < 265:
		return code - 254, nil
	}
	extra := int(br.readBits((code - 261) / 4))
	return lengthBase[code-265] + extra, nil
}

// distBase holds the base distances for codes 4-29; codes 0-3 are direct.
var distBase = [26]int{
	4, 6, 8, 12, 16, 24, 32, 48,
	64, 96, 128, 192, 256, 384,
	512, 768, 1024, 1536, 2048,
	3072, 4096, 6144, 8192,
	12288, 16384, 24576,
}

func resolveDistance(code int, br *bitReader) (int, error) {
	switch {
	case code < 0 || code > 29:
		return 0, ErrMalformed
	case code < 4:
		return code + 1, nil
	}
	extra := int(br.readBits((code - 2) / 2))
	return distBase[code-4] + extra + 1, nil
}

// codeLengthOrder is the fixed transmission order of the code-length
// code lengths in a dynamic block header.
var codeLengthOrder = [maxCodeLenCodes]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

type decoder struct {
	br   *bitReader
	sink Sink
}

// Inflate decodes the DEFLATE stream at the start of data into s,
// stopping after the final block. Trailing bytes (such as a container
// checksum) are ignored.
func Inflate(data []byte, s Sink) error {
	d := &decoder{br: newBitReader(data), sink: s}
	for {
		if d.br.done {
			return ErrMalformed
		}
		last := d.br.readBits(1) == 1

		var err error
		switch d.br.readBits(2) {
		case 0:
			err = d.storedBlock()
		case 1:
			err = d.fixedBlock()
		case 2:
			err = d.dynamicBlock()
		default:
			err = ErrMalformed
		}
		if err != nil {
			return err
		}
		if last {
			return nil
		}
	}
}

func (d *decoder) storedBlock() error {
	d.br.alignByte()
	length := d.br.readBits(16)
	nlen := d.br.readBits(16)
	if length != ^nlen&0xffff {
		return ErrMalformed
	}
	for i := uint32(0); i < length; i++ {
		if d.br.done {
			return ErrMalformed
		}
		if err := d.sink.WriteByte(byte(d.br.readBits(8))); err != nil {
			return err
		}
	}
	return nil
}

// fixedBlock decodes a block coded with the standard fixed assignment:
// 8-bit codes for literals 0-143, 9 bits for 144-255, 7 bits for 256-279
// and 8 bits for 280-287, with flat 5-bit distance codes.
func (d *decoder) fixedBlock() error {
	var litLens [maxLitLenCodes]uint32
	for i := range litLens {
		switch {
		case i <= 143:
			litLens[i] = 8
		case i <= 255:
			litLens[i] = 9
		case i <= 279:
			litLens[i] = 7
		default:
			litLens[i] = 8
		}
	}
	var distLens [maxDistCodes]uint32
	for i := range distLens {
		distLens[i] = 5
	}

	lit, err := buildTable(litLens[:])
	if err != nil {
		return err
	}
	dist, err := buildTable(distLens[:])
	if err != nil {
		return err
	}
	return d.symbolLoop(lit, dist)
}

func (d *decoder) dynamicBlock() error {
	hlit := int(d.br.readBits(5)) + 257
	hdist := int(d.br.readBits(5)) + 1
	hclen := int(d.br.readBits(4)) + 4
	if hlit > maxLitLenCodes {
		return ErrMalformed
	}

	var clLens [maxCodeLenCodes]uint32
	for i := 0; i < hclen; i++ {
		clLens[codeLengthOrder[i]] = d.br.readBits(3)
	}
	clTable, err := buildTable(clLens[:])
	if err != nil {
		return err
	}

	// The literal/length and distance lengths travel as one run-length
	// coded sequence: a repeat code may cross from the last literal
	// lengths into the distance lengths (RFC 1951 section 3.2.7).
	lengths, err := d.readCodeLengths(clTable, hlit+hdist, maxLitLenCodes+maxDistCodes)
	if err != nil {
		return err
	}

	litLens := make([]uint32, maxLitLenCodes)
	copy(litLens, lengths[:hlit])
	lit, err := buildTable(litLens)
	if err != nil {
		return err
	}

	distLens := make([]uint32, maxDistCodes)
	copy(distLens, lengths[hlit:hlit+hdist])
	dist, err := buildTable(distLens)
	if err != nil {
		return err
	}
	return d.symbolLoop(lit, dist)
}

// readCodeLengths expands the run-length-encoded code-length sequence of
// a dynamic block into count lengths (symbols 0-15 literal, 16 repeats
// the previous length, 17 and 18 repeat zero). The remainder of the
// returned array, up to the alphabet ceiling max, stays zero.
func (d *decoder) readCodeLengths(clTable *huffTable, count, max int) ([]uint32, error) {
	lengths := make([]uint32, max)
	i := 0
	for i < count {
		var val uint32
		var rep int
		switch sym := clTable.decodeSymbol(d.br); {
		case sym >= 0 && sym <= 15:
			val, rep = uint32(sym), 1
		case sym == 16:
			if i == 0 {
				return nil, ErrMalformed
			}
			val = lengths[i-1]
			rep = 3 + int(d.br.readBits(2))
		case sym == 17:
			rep = 3 + int(d.br.readBits(3))
		case sym == 18:
			rep = 11 + int(d.br.readBits(7))
		default:
			return nil, ErrMalformed
		}
		if rep > count-i {
			return nil, ErrMalformed
		}
		for ; rep > 0; rep-- {
			lengths[i] = val
			i++
		}
	}
	return lengths, nil
}

func (d *decoder) symbolLoop(lit, dist *huffTable) error {
	for {
		if d.br.done {
			return ErrMalformed
		}
		switch sym := lit.decodeSymbol(d.br); {
		case sym < 0:
			return ErrMalformed
		case sym < 256:
			if err := d.sink.WriteByte(byte(sym)); err != nil {
				return err
			}
		case sym == 256:
			return nil
		default:
			length, err := resolveLength(int(sym), d.br)
			if err != nil {
				return err
			}
			dsym := dist.decodeSymbol(d.br)
			if dsym < 0 {
				return ErrMalformed
			}
			distance, err := resolveDistance(int(dsym), d.br)
			if err != nil {
				return err
			}
			if err := d.sink.CopyMatch(distance, length); err != nil {
				return err
			}
		}
	}
}
