package flate

const (
	maxLitLenCodes  = 288 // literal/length alphabet ceiling
	maxDistCodes    = 32  // distance alphabet ceiling
	maxCodeLenCodes = 19  // code-length alphabet ceiling
	maxCodeBits     = 15  // longest code DEFLATE permits
)

// codeLengthRange is a run of consecutive symbols sharing one code length.
// Ranges are contiguous, ordered by symbol index, and together cover
// exactly the input symbol count.
type codeLengthRange struct {
	end  int // index of the last symbol in the run
	bits int // code length shared by the run
}

func rangesFromLengths(lengths []uint32) []codeLengthRange {
	ranges := make([]codeLengthRange, 0, 16)
	for i, l := range lengths {
		if i == 0 || lengths[i-1] != l {
			ranges = append(ranges, codeLengthRange{end: i, bits: int(l)})
		} else {
			ranges[len(ranges)-1].end = i
		}
	}
	return ranges
}

// huffTable is a binary trie over code bits, stored as an arena of nodes
// addressed by index so every error path releases the whole table at
// once. Node 0 is the root; absent children and interior symbols are -1.
type huffTable struct {
	nodes []huffNode
}

type huffNode struct {
	child [2]int32
	sym   int32
}

// buildTable constructs the decoding trie for a canonical Huffman code
// given per-symbol code lengths (0 marks an unused symbol). Codes of
// equal length are assigned in increasing numeric order to symbols in
// increasing index order per RFC 1951 section 3.2.2, which is what makes
// the fixed tables derivable from their length arrays alone.
func buildTable(lengths []uint32) (*huffTable, error) {
	if len(lengths) == 0 || len(lengths) > maxLitLenCodes {
		return nil, ErrMalformed
	}
	ranges := rangesFromLengths(lengths)

	maxBits := 0
	for _, r := range ranges {
		if r.bits > maxBits {
			maxBits = r.bits
		}
	}
	if maxBits > maxCodeBits {
		return nil, ErrMalformed
	}

	// blCount[l] = number of symbols coded with length l. Length 0 means
	// no code at all and must not influence code assignment.
	blCount := make([]int, maxBits+1)
	prevEnd := -1
	for _, r := range ranges {
		if r.bits > 0 {
			blCount[r.bits] += r.end - prevEnd
		}
		prevEnd = r.end
	}

	nextCode := make([]uint32, maxBits+1)
	var code uint32
	for bits := 1; bits <= maxBits; bits++ {
		code = (code + uint32(blCount[bits-1])) << 1
		if blCount[bits] > 0 {
			nextCode[bits] = code
		}
	}

	t := &huffTable{nodes: make([]huffNode, 1, 2*len(lengths)-1)}
	t.nodes[0] = huffNode{child: [2]int32{-1, -1}, sym: -1}

	ri := 0
	for i := range lengths {
		for i > ranges[ri].end {
			ri++
		}
		bits := ranges[ri].bits
		if bits == 0 {
			continue
		}
		c := nextCode[bits]
		nextCode[bits]++
		if err := t.insert(c, bits, int32(i)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// insert adds one (code, length, symbol) triple, walking code bits from
// most to least significant. Colliding with an existing leaf, threading
// through one, or exceeding the node budget all mean the transmitted
// lengths were not a valid code.
func (t *huffTable) insert(code uint32, bits int, sym int32) error {
	n := int32(0)
	for b := bits - 1; b >= 0; b-- {
		if t.nodes[n].sym >= 0 {
			return ErrMalformed
		}
		bit := (code >> uint(b)) & 1
		next := t.nodes[n].child[bit]
		if next < 0 {
			if len(t.nodes) >= cap(t.nodes) {
				return ErrMalformed
			}
			t.nodes = append(t.nodes, huffNode{child: [2]int32{-1, -1}, sym: -1})
			next = int32(len(t.nodes) - 1)
			t.nodes[n].child[bit] = next
		}
		n = next
	}
	if t.nodes[n].sym >= 0 || t.nodes[n].child[0] >= 0 || t.nodes[n].child[1] >= 0 {
		return ErrMalformed
	}
	t.nodes[n].sym = sym
	return nil
}

// decodeSymbol walks the trie one bit per edge until it reaches a leaf.
// Returns -1 when the walk falls off the trie, which callers must treat
// as a malformed stream.
func (t *huffTable) decodeSymbol(br *bitReader) int32 {
	n := int32(0)
	for {
		n = t.nodes[n].child[br.nextBit()]
		if n < 0 {
			return -1
		}
		if t.nodes[n].sym >= 0 {
			return t.nodes[n].sym
		}
	}
}
