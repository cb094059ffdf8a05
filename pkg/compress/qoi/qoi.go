// Package qoi implements the "Quite OK Image" byte format over raw
// RGBA buffers, fixed to channels=4 and colorspace=0.
package qoi

import "errors"

const (
	// Magic is the 4-byte stream signature.
	Magic = "qoif"

	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 14

	channels   = 4
	colorspace = 0

	maxRun    = 62
	indexSize = 64
)

const (
	opIndex byte = 0x00
	opDiff  byte = 0x40
	opLuma  byte = 0x80
	opRun   byte = 0xC0
	opRGB   byte = 0xFE
	opRGBA  byte = 0xFF

	maskOp byte = 0xC0
)

// endMarker closes every valid stream.
var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// ErrFormat reports a malformed QOI stream.
var ErrFormat = errors.New("qoi: invalid stream")

type pixel struct {
	r, g, b, a byte
}

func hash(p pixel) int {
	return (int(p.r)*3 + int(p.g)*5 + int(p.b)*7 + int(p.a)*11) % indexSize
}

// MaxEncodedSize is the worst-case stream size for a w*h raster:
// header, one RGBA op per pixel, end marker.
func MaxEncodedSize(w, h int) int {
	return HeaderSize + 5*w*h + len(endMarker)
}
