package huffman

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestDeltaBias(t *testing.T) {
	got := deltaEncode([]byte{42, 42, 42, 42, 42})
	want := []byte{170, 128, 128, 128, 128}
	if !bytes.Equal(got, want) {
		t.Fatalf("delta mismatch: got %v want %v", got, want)
	}
	if back := deltaDecode(got); !bytes.Equal(back, []byte{42, 42, 42, 42, 42}) {
		t.Fatalf("delta inverse mismatch: %v", back)
	}
}

func TestDeltaClamp(t *testing.T) {
	// A +200 jump clamps to +127 on encode; the decode then lands short.
	enc := deltaEncode([]byte{0, 200})
	if enc[1] != 255 {
		t.Fatalf("expected clamped delta 255, got %d", enc[1])
	}
	dec := deltaDecode(enc)
	if dec[1] != 127 {
		t.Fatalf("expected lossy reconstruction 127, got %d", dec[1])
	}
}

func TestRLEGroups(t *testing.T) {
	cases := []struct {
		in, want []byte
	}{
		{[]byte{1, 2, 3}, []byte{1, 2, 3}},
		{[]byte{7, 7}, []byte{7, 7}},
		{[]byte{7, 7, 7}, []byte{marker, 3, 7}},
		{[]byte{marker}, []byte{marker, 1, marker}},
		{[]byte{1, marker, marker, 2}, []byte{1, marker, 2, marker, 2}},
	}
	for _, tc := range cases {
		if got := rleEncode(tc.in); !bytes.Equal(got, tc.want) {
			t.Fatalf("rleEncode(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRLELongRun(t *testing.T) {
	in := bytes.Repeat([]byte{9}, 600)
	got := rleEncode(in)
	want := []byte{marker, 255, 9, marker, 255, 9, marker, 90, 9}
	if !bytes.Equal(got, want) {
		t.Fatalf("long run mismatch: %v", got)
	}
}

func TestEncodeDegenerateRun(t *testing.T) {
	src := []byte{42, 42, 42, 42, 42}
	enc := Encode(src)

	// Delta gives 170,128,128,128,128; RLE gives 170, {FF,4,128}; four
	// distinct symbols all get 2-bit codes, so the packed body is one byte.
	wantHeader := []byte{4, 4, 2, 128, 2, 170, 2, 255, 2}
	if !bytes.Equal(enc[:len(wantHeader)], wantHeader) {
		t.Fatalf("table mismatch: %v", enc)
	}
	if len(enc) != len(wantHeader)+1 {
		t.Fatalf("expected single packed byte, got %d extra", len(enc)-len(wantHeader))
	}

	dec, err := Decode(enc, len(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Fatalf("round trip mismatch: %v", dec)
	}
}

func TestSingleSymbol(t *testing.T) {
	enc := Encode([]byte{0})
	// One table entry of length 1, one packed bit.
	if !bytes.Equal(enc, []byte{1, 128, 1, 0x00}) {
		t.Fatalf("unexpected stream: %v", enc)
	}
	dec, err := Decode(enc, 1)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(dec, []byte{0}) {
		t.Fatalf("round trip mismatch: %v", dec)
	}
}

func TestEmpty(t *testing.T) {
	if enc := Encode(nil); len(enc) != 0 {
		t.Fatalf("expected empty stream, got %v", enc)
	}
	dec, err := Decode(nil, 0)
	if err != nil || len(dec) != 0 {
		t.Fatalf("expected empty decode, got %v, %v", dec, err)
	}
}

// TestRoundTrip covers smooth sequences (the nodal case), long runs
// and +127 steps whose delta bytes collide with the RLE marker. All
// inputs stay within the signed 8-bit delta range; larger first steps
// are clamped by design and tested separately in TestDeltaClamp.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	smooth := make([]byte, 500)
	v := 100
	for i := range smooth {
		v += rng.Intn(21) - 10
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		smooth[i] = byte(v)
	}

	cases := [][]byte{
		{0},
		{0, 127, 254, 254, 254, 127, 0},
		bytes.Repeat([]byte{100}, 1000),
		smooth,
	}
	for _, src := range cases {
		enc := Encode(src)
		dec, err := Decode(enc, len(src))
		if err != nil {
			t.Fatalf("Decode failed for %d bytes: %v", len(src), err)
		}
		if !bytes.Equal(dec, src) {
			t.Fatalf("round trip mismatch for %d bytes", len(src))
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	enc := Encode([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	if _, err := Decode([]byte{}, 3); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected format error for empty stream, got %v", err)
	}
	if _, err := Decode(enc[:2], 8); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected format error for truncated table, got %v", err)
	}
	// Expecting more output than the bitstream can supply.
	if _, err := Decode(enc, 10000); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected format error for truncated bitstream, got %v", err)
	}
}
