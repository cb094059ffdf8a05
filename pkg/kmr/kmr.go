// Package kmr implements the KMR hybrid lossless/near-lossless image
// codec. An encode splits the image into a block-averaged YCrCb nodal
// skeleton (delta + run-length + canonical Huffman coded) and a
// per-pixel Paeth residual image (QOI coded), and packs both into a
// fixed-header container. Decode reverses the pipeline; the pixel
// output derives purely from the residual stream.
package kmr

import "errors"

// File extension conventionally used for containers.
const Ext = ".kmr"

var (
	// ErrFormat reports a malformed container or payload section.
	ErrFormat = errors.New("kmr: invalid format")
	// ErrDimension reports a mismatch between a buffer and its
	// declared dimensions.
	ErrDimension = errors.New("kmr: dimension mismatch")
)

// Params are the encoder knobs. Out-of-range values are clamped, not
// rejected, so arbitrary host UI values can be passed through.
type Params struct {
	BlockSize   int  // tile edge in pixels, effective range [2,255]
	DiscardBits int  // low bits zeroed on each node, effective range [0,6]
	Smooth      bool // bilinear preview reconstruction instead of flat fill
}

func (p Params) normalized() Params {
	if p.BlockSize < 2 {
		p.BlockSize = 2
	} else if p.BlockSize > 255 {
		p.BlockSize = 255
	}
	if p.DiscardBits < 0 {
		p.DiscardBits = 0
	} else if p.DiscardBits > 6 {
		p.DiscardBits = 6
	}
	return p
}

// gridDims returns the nodal grid dimensions for a raster.
func gridDims(w, h, block int) (gw, gh int) {
	return (w + block - 1) / block, (h + block - 1) / block
}
