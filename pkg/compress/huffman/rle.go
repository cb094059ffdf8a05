package huffman

import "fmt"

// marker introduces a {marker, run, value} group. A literal 0xFF is
// always escaped as a group so the marker stays unambiguous.
const marker = 0xFF

// rleEncode collapses runs of three or more equal bytes (and every
// occurrence of the marker byte) into {marker, run, value} groups,
// with runs bounded at 255.
func rleEncode(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		v := src[i]
		run := 1
		for i+run < len(src) && run < 255 && src[i+run] == v {
			run++
		}
		if run >= 3 || v == marker {
			out = append(out, marker, byte(run), v)
		} else {
			for j := 0; j < run; j++ {
				out = append(out, v)
			}
		}
		i += run
	}
	return out
}

// rleExpander streams the inverse transform: bytes produced by the
// entropy decoder go in one at a time, expanded bytes accumulate in
// out up to an exact expected count.
type rleExpander struct {
	out      []byte
	expected int

	inGroup bool
	haveRun bool
	run     int
}

func (e *rleExpander) done() bool {
	return len(e.out) >= e.expected
}

func (e *rleExpander) feed(b byte) error {
	switch {
	case !e.inGroup && b == marker:
		e.inGroup = true
	case e.inGroup && !e.haveRun:
		e.run = int(b)
		e.haveRun = true
	case e.inGroup:
		if len(e.out)+e.run > e.expected {
			return fmt.Errorf("huffman: run of %d overruns expected length %d", e.run, e.expected)
		}
		for j := 0; j < e.run; j++ {
			e.out = append(e.out, b)
		}
		e.inGroup, e.haveRun = false, false
	default:
		if len(e.out) >= e.expected {
			return fmt.Errorf("huffman: literal past expected length %d", e.expected)
		}
		e.out = append(e.out, b)
	}
	return nil
}
