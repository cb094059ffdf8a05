package kmr

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerRoundTrip(t *testing.T) {
	h := header{
		blockSize:   8,
		discardBits: 3,
		smooth:      true,
		width:       640,
		height:      480,
	}
	qoi := []byte{1, 2, 3, 4, 5}
	hy := []byte{6, 7}
	hcb := []byte{8}
	hcr := []byte{9, 10, 11}

	data := buildContainer(h, qoi, hy, hcb, hcr)
	require.Equal(t, headerSize+len(qoi)+len(hy)+len(hcb)+len(hcr), len(data))
	assert.Equal(t, "KMR1", string(data[:4]))
	assert.Equal(t, byte(1), data[4])

	got, gq, gy, gcb, gcr, err := parseContainer(data)
	require.NoError(t, err)
	assert.Equal(t, byte(8), got.blockSize)
	assert.Equal(t, byte(3), got.discardBits)
	assert.True(t, got.smooth)
	assert.Equal(t, uint32(640), got.width)
	assert.Equal(t, uint32(480), got.height)
	assert.Equal(t, qoi, gq)
	assert.Equal(t, hy, gy)
	assert.Equal(t, hcb, gcb)
	assert.Equal(t, hcr, gcr)
}

func TestContainerSmoothIsAnyNonZero(t *testing.T) {
	data := buildContainer(header{blockSize: 2}, nil, nil, nil, nil)
	data[7] = 7
	h, _, _, _, _, err := parseContainer(data)
	require.NoError(t, err)
	assert.True(t, h.smooth)
}

func TestContainerRejectsLengthMismatch(t *testing.T) {
	data := buildContainer(header{blockSize: 2}, []byte{1, 2, 3}, []byte{4}, []byte{5}, []byte{6})

	// Shrink a section length so the sum disagrees with the total.
	binary.BigEndian.PutUint32(data[16:20], 2)
	_, _, _, _, _, err := parseContainer(data)
	require.ErrorIs(t, err, ErrFormat)

	// Truncate the buffer below the header.
	_, _, _, _, _, err = parseContainer(data[:10])
	require.ErrorIs(t, err, ErrFormat)
}

func TestContainerRejectsOverflowingLengths(t *testing.T) {
	data := buildContainer(header{blockSize: 2}, []byte{1}, nil, nil, nil)
	// A huge section length must not wrap the sum back into range.
	binary.BigEndian.PutUint32(data[16:20], 0xFFFFFFFF)
	binary.BigEndian.PutUint32(data[20:24], 2)
	_, _, _, _, _, err := parseContainer(data)
	require.ErrorIs(t, err, ErrFormat)
}
