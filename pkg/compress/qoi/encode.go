package qoi

import (
	"encoding/binary"
	"fmt"
)

// Encode compresses a 4*w*h RGBA buffer into a QOI stream.
func Encode(rgba []byte, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("qoi: invalid dimensions %dx%d", w, h)
	}
	if len(rgba) != 4*w*h {
		return nil, fmt.Errorf("qoi: buffer length %d does not match %dx%d", len(rgba), w, h)
	}

	out := make([]byte, 0, MaxEncodedSize(w, h))
	out = append(out, Magic...)
	out = binary.BigEndian.AppendUint32(out, uint32(w))
	out = binary.BigEndian.AppendUint32(out, uint32(h))
	out = append(out, channels, colorspace)

	var index [indexSize]pixel
	prev := pixel{0, 0, 0, 255}
	run := 0

	for pos := 0; pos < w*h; pos++ {
		px := pixel{rgba[pos*4], rgba[pos*4+1], rgba[pos*4+2], rgba[pos*4+3]}

		if px == prev {
			run++
			if run == maxRun {
				out = append(out, opRun|byte(run-1))
				run = 0
			}
			continue
		}
		if run > 0 {
			out = append(out, opRun|byte(run-1))
			run = 0
		}

		slot := hash(px)
		if index[slot] == px {
			out = append(out, opIndex|byte(slot))
			prev = px
			continue
		}
		index[slot] = px

		if px.a == prev.a {
			vr := int8(px.r - prev.r)
			vg := int8(px.g - prev.g)
			vb := int8(px.b - prev.b)

			vgr := vr - vg
			vgb := vb - vg

			switch {
			case vr >= -2 && vr <= 1 && vg >= -2 && vg <= 1 && vb >= -2 && vb <= 1:
				out = append(out, opDiff|byte(vr+2)<<4|byte(vg+2)<<2|byte(vb+2))
			case vg >= -32 && vg <= 31 && vgr >= -8 && vgr <= 7 && vgb >= -8 && vgb <= 7:
				out = append(out, opLuma|byte(vg+32), byte(vgr+8)<<4|byte(vgb+8))
			default:
				out = append(out, opRGB, px.r, px.g, px.b)
			}
		} else {
			out = append(out, opRGBA, px.r, px.g, px.b, px.a)
		}
		prev = px
	}

	if run > 0 {
		out = append(out, opRun|byte(run-1))
	}
	out = append(out, endMarker[:]...)
	return out, nil
}
