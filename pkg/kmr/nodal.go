package kmr

import "math"

// nodalGrid holds one byte per tile and channel, row-major.
type nodalGrid struct {
	gw, gh    int
	y, cb, cr []byte
}

func rgbToYCrCb(r, g, b float64) (y, cb, cr float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	cb = -0.1687*r - 0.3313*g + 0.5*b + 128
	cr = 0.5*r - 0.4187*g - 0.0813*b + 128
	return
}

func yCrCbToRGB(y, cb, cr float64) (r, g, b byte) {
	r = clampByte(y + 1.402*(cr-128))
	g = clampByte(y - 0.34414*(cb-128) - 0.71414*(cr-128))
	b = clampByte(y + 1.772*(cb-128))
	return
}

func clampByte(v float64) byte {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// extractNodes averages Y, Cb, Cr over each BxB tile (edge tiles
// truncated to the raster bounds), rounds, clamps and quantizes away
// the lowest discard bits.
func extractNodes(img Image, block, discard int) nodalGrid {
	gw, gh := gridDims(img.Width, img.Height, block)
	g := nodalGrid{
		gw: gw, gh: gh,
		y:  make([]byte, gw*gh),
		cb: make([]byte, gw*gh),
		cr: make([]byte, gw*gh),
	}

	for gy := 0; gy < gh; gy++ {
		y0, y1 := gy*block, min((gy+1)*block, img.Height)
		for gx := 0; gx < gw; gx++ {
			x0, x1 := gx*block, min((gx+1)*block, img.Width)

			var sy, scb, scr float64
			n := 0
			for py := y0; py < y1; py++ {
				row := py * img.Width * 4
				for px := x0; px < x1; px++ {
					i := row + px*4
					ly, lcb, lcr := rgbToYCrCb(float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2]))
					sy += ly
					scb += lcb
					scr += lcr
					n++
				}
			}

			// Degenerate tiles only occur when the block size
			// exceeds the raster; keep them at zero.
			node := gy*gw + gx
			if n > 0 {
				g.y[node] = quantize(sy/float64(n), discard)
				g.cb[node] = quantize(scb/float64(n), discard)
				g.cr[node] = quantize(scr/float64(n), discard)
			}
		}
	}
	return g
}

func quantize(v float64, discard int) byte {
	q := int(math.Round(v))
	if q < 0 {
		q = 0
	} else if q > 255 {
		q = 255
	}
	return byte(q >> uint(discard) << uint(discard))
}

// reconstructPreview rebuilds the full-resolution preview the residual
// stage predicts against. With discard = 0 the preview is the source
// image itself and no reconstruction happens.
func reconstructPreview(src Image, g nodalGrid, block, discard int, smooth bool) Image {
	if discard == 0 {
		return src
	}
	if smooth {
		return reconstructBilinear(src.Width, src.Height, g, block)
	}
	return reconstructFlat(src.Width, src.Height, g, block)
}

// reconstructFlat fills each tile uniformly with its node color.
func reconstructFlat(w, h int, g nodalGrid, block int) Image {
	out := NewImage(w, h)
	for gy := 0; gy < g.gh; gy++ {
		y0, y1 := gy*block, min((gy+1)*block, h)
		for gx := 0; gx < g.gw; gx++ {
			x0, x1 := gx*block, min((gx+1)*block, w)
			node := gy*g.gw + gx
			r, gg, b := yCrCbToRGB(float64(g.y[node]), float64(g.cb[node]), float64(g.cr[node]))
			for py := y0; py < y1; py++ {
				row := py * w * 4
				for px := x0; px < x1; px++ {
					i := row + px*4
					out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, gg, b, 255
				}
			}
		}
	}
	return out
}

// reconstructBilinear interpolates each channel across the four
// enclosing nodes. Tile anchors are clamped at the right and bottom
// edges; a collapsed span interpolates with weight zero.
func reconstructBilinear(w, h int, g nodalGrid, block int) Image {
	out := NewImage(w, h)
	for y := 0; y < h; y++ {
		gy := y / block
		gy1 := min(gy+1, g.gh-1)
		yA := gy * block
		yB := min(h-1, (gy+1)*block)
		ty := 0.0
		if yB > yA {
			ty = float64(y-yA) / float64(yB-yA)
		}

		for x := 0; x < w; x++ {
			gx := x / block
			gx1 := min(gx+1, g.gw-1)
			xA := gx * block
			xB := min(w-1, (gx+1)*block)
			tx := 0.0
			if xB > xA {
				tx = float64(x-xA) / float64(xB-xA)
			}

			n00 := gy*g.gw + gx
			n10 := gy*g.gw + gx1
			n01 := gy1*g.gw + gx
			n11 := gy1*g.gw + gx1

			yv := bilerp(float64(g.y[n00]), float64(g.y[n10]), float64(g.y[n01]), float64(g.y[n11]), tx, ty)
			cbv := bilerp(float64(g.cb[n00]), float64(g.cb[n10]), float64(g.cb[n01]), float64(g.cb[n11]), tx, ty)
			crv := bilerp(float64(g.cr[n00]), float64(g.cr[n10]), float64(g.cr[n01]), float64(g.cr[n11]), tx, ty)

			r, gg, b := yCrCbToRGB(yv, cbv, crv)
			i := (y*w + x) * 4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, gg, b, 255
		}
	}
	return out
}

func bilerp(v00, v10, v01, v11, tx, ty float64) float64 {
	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}
