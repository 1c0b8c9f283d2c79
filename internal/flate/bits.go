package flate

// bitReader extracts bits from a byte buffer least-significant-bit first,
// the order DEFLATE transmits every field in. Once the buffer runs dry it
// keeps handing out zero bits; truncation is detected by the block decoder
// when the zero bits produce an impossible symbol or an unterminated
// block, never here.
type bitReader struct {
	in   []byte
	pos  int  // index of the byte after cur
	cur  byte // byte bits are currently drawn from
	mask byte // position of the next bit within cur, wraps 1..128
	done bool
}

func newBitReader(in []byte) *bitReader {
	br := &bitReader{in: in, mask: 1}
	if len(in) == 0 {
		br.done = true
		return br
	}
	br.cur = in[0]
	br.pos = 1
	return br
}

func (br *bitReader) nextBit() uint32 {
	if br.done {
		return 0
	}
	var bit uint32
	if br.cur&br.mask != 0 {
		bit = 1
	}
	br.mask <<= 1
	if br.mask == 0 {
		br.mask = 1
		if br.pos < len(br.in) {
			br.cur = br.in[br.pos]
			br.pos++
		} else {
			br.done = true
		}
	}
	return bit
}

// readBits reads n bits and packs them into the low-order end of the
// result, first bit read lowest. Multi-bit DEFLATE fields (HLIT, HDIST,
// HCLEN, extra bits, stored-block lengths) all use this ordering.
func (br *bitReader) readBits(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v |= br.nextBit() << uint(i)
	}
	return v
}

// alignByte discards the remainder of a partially consumed byte so the
// next read starts on a byte boundary, as stored blocks require
// (RFC 1951 section 3.2.4). Exhaustion always leaves mask at 1, so the
// loop terminates.
func (br *bitReader) alignByte() {
	for br.mask != 1 {
		br.nextBit()
	}
}
