package kmr

import (
	"encoding/binary"
	"fmt"
)

// Container layout: a fixed 32-byte header followed by the QOI section
// and the three Huffman-coded nodal sections (Y, Cb, Cr), in that
// order. Multi-byte integers are big-endian.
const (
	magic      = "KMR1"
	version    = 1
	headerSize = 32
)

type header struct {
	blockSize   byte
	discardBits byte
	smooth      bool
	width       uint32
	height      uint32
	qoiLen      uint32
	yLen        uint32
	cbLen       uint32
	crLen       uint32
}

func buildContainer(h header, qoi, hy, hcb, hcr []byte) []byte {
	out := make([]byte, 0, headerSize+len(qoi)+len(hy)+len(hcb)+len(hcr))
	out = append(out, magic...)
	out = append(out, version, h.blockSize, h.discardBits, boolByte(h.smooth))
	out = binary.BigEndian.AppendUint32(out, h.width)
	out = binary.BigEndian.AppendUint32(out, h.height)
	out = binary.BigEndian.AppendUint32(out, uint32(len(qoi)))
	out = binary.BigEndian.AppendUint32(out, uint32(len(hy)))
	out = binary.BigEndian.AppendUint32(out, uint32(len(hcb)))
	out = binary.BigEndian.AppendUint32(out, uint32(len(hcr)))
	out = append(out, qoi...)
	out = append(out, hy...)
	out = append(out, hcb...)
	out = append(out, hcr...)
	return out
}

func parseContainer(data []byte) (header, []byte, []byte, []byte, []byte, error) {
	var h header
	if len(data) < headerSize {
		return h, nil, nil, nil, nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrFormat, len(data))
	}
	if string(data[:4]) != magic {
		return h, nil, nil, nil, nil, fmt.Errorf("%w: bad magic %q", ErrFormat, data[:4])
	}
	if data[4] != version {
		return h, nil, nil, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, data[4])
	}

	h.blockSize = data[5]
	h.discardBits = data[6]
	h.smooth = data[7] != 0
	h.width = binary.BigEndian.Uint32(data[8:12])
	h.height = binary.BigEndian.Uint32(data[12:16])
	h.qoiLen = binary.BigEndian.Uint32(data[16:20])
	h.yLen = binary.BigEndian.Uint32(data[20:24])
	h.cbLen = binary.BigEndian.Uint32(data[24:28])
	h.crLen = binary.BigEndian.Uint32(data[28:32])

	total := headerSize + uint64(h.qoiLen) + uint64(h.yLen) + uint64(h.cbLen) + uint64(h.crLen)
	if total != uint64(len(data)) {
		return h, nil, nil, nil, nil, fmt.Errorf("%w: sections sum to %d bytes, container is %d", ErrFormat, total, len(data))
	}

	p := uint64(headerSize)
	qoi := data[p : p+uint64(h.qoiLen)]
	p += uint64(h.qoiLen)
	hy := data[p : p+uint64(h.yLen)]
	p += uint64(h.yLen)
	hcb := data[p : p+uint64(h.cbLen)]
	p += uint64(h.cbLen)
	hcr := data[p : p+uint64(h.crLen)]

	return h, qoi, hy, hcb, hcr, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
