package paeth

// Predict selects the Paeth predictor for a single channel given the
// left (a), above (b) and above-left (c) neighbor values.
// Ties resolve left first, then above, then above-left.
func Predict(a, b, c int) int {
	p := a + b - c
	pa := abs(p - a)
	pb := abs(p - b)
	pc := abs(p - c)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

// Residual computes the per-channel Paeth residual of a 4*w*h RGBA
// buffer. R, G and B become (src - prediction) mod 256; alpha is
// carried through unchanged. Neighbors outside the raster read as zero.
func Residual(rgba []byte, w, h int) []byte {
	out := make([]byte, len(rgba))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			for c := 0; c < 3; c++ {
				out[i+c] = rgba[i+c] - predictAt(rgba, w, x, y, c)
			}
			out[i+3] = rgba[i+3]
		}
	}
	return out
}

// Reconstruct inverts Residual. The prediction for each pixel is taken
// from already reconstructed output, left-to-right, top-to-bottom.
func Reconstruct(residual []byte, w, h int) []byte {
	out := make([]byte, len(residual))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			for c := 0; c < 3; c++ {
				out[i+c] = residual[i+c] + predictAt(out, w, x, y, c)
			}
			out[i+3] = residual[i+3]
		}
	}
	return out
}

// predictAt evaluates the predictor for channel c of pixel (x, y) using
// the neighbors already present in buf.
func predictAt(buf []byte, w, x, y, c int) byte {
	var a, b, d int
	i := (y*w + x) * 4
	if x > 0 {
		a = int(buf[i-4+c])
	}
	if y > 0 {
		b = int(buf[i-4*w+c])
	}
	if x > 0 && y > 0 {
		d = int(buf[i-4*w-4+c])
	}
	return byte(Predict(a, b, d))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
