// Package huffman entropy-codes byte sequences with a delta + run-length
// front-end and a canonical Huffman code.
//
// The wire layout is: one byte N of table entries, N (symbol, length)
// pairs in canonical order (length ascending, symbol ascending), then the
// packed code bits MSB-first, zero-padded to a byte boundary. The decoder
// is driven by the caller's expected output length, so trailing pad bits
// are never misread as data.
package huffman

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
)

// ErrFormat reports a malformed or truncated Huffman stream.
var ErrFormat = errors.New("huffman: invalid stream")

type node struct {
	freq   int
	symbol int // -1 for internal nodes
	order  int // insertion order, keeps tree construction deterministic
	left   *node
	right  *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].order < h[j].order
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

// codeLengths derives the Huffman code length of every symbol present
// in src. A single-symbol alphabet is assigned length 1.
func codeLengths(src []byte) [256]int {
	var freq [256]int
	for _, b := range src {
		freq[b]++
	}

	h := &nodeHeap{}
	order := 0
	for s, f := range freq {
		if f > 0 {
			heap.Push(h, &node{freq: f, symbol: s, order: order})
			order++
		}
	}

	var lengths [256]int
	if h.Len() == 1 {
		lengths[(*h)[0].symbol] = 1
		return lengths
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		heap.Push(h, &node{freq: a.freq + b.freq, symbol: -1, order: order, left: a, right: b})
		order++
	}

	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		if n.symbol >= 0 {
			lengths[n.symbol] = depth
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk((*h)[0], 0)
	return lengths
}

type tableEntry struct {
	symbol byte
	length int
}

// canonicalTable lists the coded symbols in canonical order: length
// ascending, symbol ascending within a length.
func canonicalTable(lengths [256]int) []tableEntry {
	var entries []tableEntry
	for s := 0; s < 256; s++ {
		if lengths[s] > 0 {
			entries = append(entries, tableEntry{symbol: byte(s), length: lengths[s]})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})
	return entries
}

// canonicalCodes assigns each entry its canonical code: successor codes
// increment, a length jump of d shifts left by d.
func canonicalCodes(entries []tableEntry) []uint64 {
	codes := make([]uint64, len(entries))
	var code uint64
	prevLen := 0
	for i, e := range entries {
		if prevLen == 0 {
			code = 0
		} else {
			code++
			if e.length > prevLen {
				code <<= uint(e.length - prevLen)
			}
		}
		codes[i] = code
		prevLen = e.length
	}
	return codes
}

// Encode applies delta, run-length and canonical Huffman coding to src.
// Empty input yields empty output.
func Encode(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}

	rle := rleEncode(deltaEncode(src))
	entries := canonicalTable(codeLengths(rle))
	codes := canonicalCodes(entries)

	var codeOf [256]uint64
	var lenOf [256]int
	for i, e := range entries {
		codeOf[e.symbol] = codes[i]
		lenOf[e.symbol] = e.length
	}

	out := make([]byte, 0, 1+2*len(entries)+len(rle))
	out = append(out, byte(len(entries)))
	for _, e := range entries {
		out = append(out, e.symbol, byte(e.length))
	}

	w := bitWriter{out: out}
	for _, b := range rle {
		w.writeBits(codeOf[b], lenOf[b])
	}
	w.flush()
	return w.out
}

// Decode reverses Encode, producing exactly expectedLength bytes.
// Trailing pad bits are ignored.
func Decode(data []byte, expectedLength int) ([]byte, error) {
	if expectedLength == 0 {
		return nil, nil
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: missing table header", ErrFormat)
	}

	n := int(data[0])
	if len(data) < 1+2*n {
		return nil, fmt.Errorf("%w: truncated code table (%d entries, %d bytes)", ErrFormat, n, len(data))
	}
	entries := make([]tableEntry, n)
	maxLen := 0
	for i := 0; i < n; i++ {
		entries[i] = tableEntry{symbol: data[1+2*i], length: int(data[2+2*i])}
		if entries[i].length == 0 || (i > 0 && entries[i].length < entries[i-1].length) {
			return nil, fmt.Errorf("%w: code table out of canonical order", ErrFormat)
		}
		if entries[i].length > maxLen {
			maxLen = entries[i].length
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: empty code table", ErrFormat)
	}
	codes := canonicalCodes(entries)

	// Per-length decoding ranges over the canonical symbol array.
	minCode := make([]uint64, maxLen+1)
	maxCode := make([]uint64, maxLen+1)
	offset := make([]int, maxLen+1)
	present := make([]bool, maxLen+1)
	for i, e := range entries {
		if !present[e.length] {
			present[e.length] = true
			minCode[e.length] = codes[i]
			offset[e.length] = i
		}
		maxCode[e.length] = codes[i]
	}

	r := bitReader{data: data[1+2*n:]}
	exp := rleExpander{out: make([]byte, 0, expectedLength), expected: expectedLength}
	for !exp.done() {
		var c uint64
		l := 0
		for {
			bit, ok := r.readBit()
			if !ok {
				return nil, fmt.Errorf("%w: bitstream ended after %d of %d bytes", ErrFormat, len(exp.out), expectedLength)
			}
			c = c<<1 | bit
			l++
			if l > maxLen {
				return nil, fmt.Errorf("%w: unreachable code", ErrFormat)
			}
			if present[l] && c <= maxCode[l] {
				break
			}
		}
		sym := entries[offset[l]+int(c-minCode[l])].symbol
		if err := exp.feed(sym); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	}

	return deltaDecode(exp.out), nil
}
