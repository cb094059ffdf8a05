package kmr

import "math"

// PSNR computes the peak signal-to-noise ratio in dB between two RGBA
// buffers over the RGB channels. Identical buffers return +Inf.
func PSNR(a, b []byte) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var sum float64
	n := 0
	for i := 0; i < len(a); i += 4 {
		for c := 0; c < 3; c++ {
			d := float64(a[i+c]) - float64(b[i+c])
			sum += d * d
			n++
		}
	}
	if sum == 0 {
		return math.Inf(1)
	}
	mse := sum / float64(n)
	return 10 * math.Log10(255*255/mse)
}
