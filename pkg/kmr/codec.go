package kmr

import (
	"fmt"
	"image"
	"sync"

	"github.com/quIiIettt/kmr/pkg/compress/huffman"
	"github.com/quIiIettt/kmr/pkg/compress/paeth"
	"github.com/quIiIettt/kmr/pkg/compress/qoi"
)

// Result carries the reconstructed raster and the container metadata
// observed during decode.
type Result struct {
	RGBA   []byte
	Width  int
	Height int

	BlockSize   int
	DiscardBits int
	Smooth      bool

	QOILen   int // QOI section bytes
	NodalLen int // Huffman Y+Cb+Cr section bytes
	TotalLen int // whole container
}

// Image returns the reconstructed raster as an owned value.
func (r *Result) Image() Image {
	return Image{Width: r.Width, Height: r.Height, Pix: r.RGBA}
}

// Encode compresses a 4*w*h RGBA buffer into a KMR container.
// Out-of-range parameters are clamped.
func Encode(rgba []byte, w, h int, p Params) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrDimension, w, h)
	}
	if len(rgba) != 4*w*h {
		return nil, fmt.Errorf("%w: buffer is %d bytes, want %d for %dx%d", ErrDimension, len(rgba), 4*w*h, w, h)
	}
	p = p.normalized()

	src := Image{Width: w, Height: h, Pix: rgba}
	grid := extractNodes(src, p.BlockSize, p.DiscardBits)
	preview := reconstructPreview(src, grid, p.BlockSize, p.DiscardBits, p.Smooth)

	residual := paeth.Residual(preview.Pix, w, h)
	qoiBytes, err := qoi.Encode(residual, w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: qoi: %v", ErrFormat, err)
	}

	// The three nodal streams are independent; encode them in
	// parallel and concatenate in fixed Y, Cb, Cr order.
	var hy, hcb, hcr []byte
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); hy = huffman.Encode(grid.y) }()
	go func() { defer wg.Done(); hcb = huffman.Encode(grid.cb) }()
	go func() { defer wg.Done(); hcr = huffman.Encode(grid.cr) }()
	wg.Wait()

	hdr := header{
		blockSize:   byte(p.BlockSize),
		discardBits: byte(p.DiscardBits),
		smooth:      p.Smooth,
		width:       uint32(w),
		height:      uint32(h),
	}
	return buildContainer(hdr, qoiBytes, hy, hcb, hcr), nil
}

// EncodeImage is Encode over a stdlib image, converting to an owned
// RGBA raster first. Alpha defaults to 255 for opaque sources.
func EncodeImage(img image.Image, p Params) ([]byte, error) {
	m := FromImage(img)
	return Encode(m.Pix, m.Width, m.Height, p)
}

// Decode unpacks a KMR container and reconstructs the raster from the
// residual stream. The nodal streams are decoded as well, which
// validates them, but the pixel output does not depend on them.
func Decode(data []byte) (*Result, error) {
	hdr, qoiSec, ySec, cbSec, crSec, err := parseContainer(data)
	if err != nil {
		return nil, err
	}

	w, h := int(hdr.width), int(hdr.height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, w, h)
	}

	block := int(hdr.blockSize)
	if block < 2 {
		block = 2
	}
	gw, gh := gridDims(w, h, block)
	expected := gw * gh

	for _, sec := range []struct {
		name string
		data []byte
	}{{"Y", ySec}, {"Cb", cbSec}, {"Cr", crSec}} {
		if _, err := huffman.Decode(sec.data, expected); err != nil {
			return nil, fmt.Errorf("%w: nodal %s: %v", ErrFormat, sec.name, err)
		}
	}

	residual, qw, qh, err := qoi.Decode(qoiSec)
	if err != nil {
		return nil, fmt.Errorf("%w: qoi: %v", ErrFormat, err)
	}
	if qw != w || qh != h {
		return nil, fmt.Errorf("%w: qoi declares %dx%d, container declares %dx%d", ErrFormat, qw, qh, w, h)
	}

	return &Result{
		RGBA:        paeth.Reconstruct(residual, w, h),
		Width:       w,
		Height:      h,
		BlockSize:   int(hdr.blockSize),
		DiscardBits: int(hdr.discardBits),
		Smooth:      hdr.smooth,
		QOILen:      len(qoiSec),
		NodalLen:    len(ySec) + len(cbSec) + len(crSec),
		TotalLen:    len(data),
	}, nil
}
