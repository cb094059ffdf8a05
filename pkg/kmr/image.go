package kmr

import (
	"image"
	"image/draw"
)

// Image is an owned RGBA raster: 4*Width*Height bytes, row-major,
// channel order R,G,B,A. It is treated as a value; encode and decode
// never alias a caller's buffer into their outputs.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage allocates a zeroed raster.
func NewImage(w, h int) Image {
	return Image{Width: w, Height: h, Pix: make([]byte, 4*w*h)}
}

// FromImage converts any image.Image into an owned RGBA raster.
// Sources without an alpha channel come out with alpha 255.
func FromImage(src image.Image) Image {
	b := src.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), src, b.Min, draw.Src)
	return Image{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix}
}

// ToNRGBA copies the raster into a stdlib image for PNG/JPEG encoders.
func (m Image) ToNRGBA() *image.NRGBA {
	n := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	copy(n.Pix, m.Pix)
	return n
}
