package kmr

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func benchImage(b *testing.B) ([]byte, int, int) {
	b.Helper()
	rng := rand.New(rand.NewSource(42))
	w, h := 256, 256
	pix := make([]byte, 4*w*h)
	// Smooth gradient with speckle, roughly photographic statistics.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i] = byte(x + rng.Intn(9) - 4)
			pix[i+1] = byte(y + rng.Intn(9) - 4)
			pix[i+2] = byte((x + y) / 2)
			pix[i+3] = 255
		}
	}
	return pix, w, h
}

func BenchmarkEncode(b *testing.B) {
	pix, w, h := benchImage(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(pix, w, h, Params{BlockSize: 8}); err != nil {
			b.Fatalf("encode failed: %v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	pix, w, h := benchImage(b)
	enc, err := Encode(pix, w, h, Params{BlockSize: 8})
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(enc); err != nil {
			b.Fatalf("decode failed: %v", err)
		}
	}
}

// BenchmarkBaselines reports the sizes other compressors reach on the
// same raster, as a sanity reference for the container size.
func BenchmarkBaselines(b *testing.B) {
	pix, w, h := benchImage(b)
	img := Image{Width: w, Height: h, Pix: pix}

	b.Run("kmr", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			enc, err := Encode(pix, w, h, Params{BlockSize: 8})
			if err != nil {
				b.Fatalf("encode failed: %v", err)
			}
			b.ReportMetric(float64(len(enc)), "bytes")
		}
	})

	b.Run("zstd-raw", func(b *testing.B) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			b.Fatalf("zstd writer: %v", err)
		}
		defer enc.Close()
		for i := 0; i < b.N; i++ {
			out := enc.EncodeAll(pix, nil)
			b.ReportMetric(float64(len(out)), "bytes")
		}
	})

	b.Run("png", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img.ToNRGBA()); err != nil {
				b.Fatalf("png encode failed: %v", err)
			}
			b.ReportMetric(float64(buf.Len()), "bytes")
		}
	})

	b.Run("jpeg-q80", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img.ToNRGBA(), &jpeg.Options{Quality: 80}); err != nil {
				b.Fatalf("jpeg encode failed: %v", err)
			}
			b.ReportMetric(float64(buf.Len()), "bytes")
		}
	})
}
