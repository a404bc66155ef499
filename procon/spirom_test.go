package procon

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPIReadKnownPages(t *testing.T) {
	data, ok := spiRead(0x60, 0x00, 0x10)
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 16), data)

	// Stick parameter area inside the factory page.
	data, ok = spiRead(0x60, 0x20, 0x06)
	require.True(t, ok)
	assert.Equal(t, []byte{0xf0, 0xff, 0x89, 0x00, 0xf0, 0x01}, data)

	// User calibration page.
	data, ok = spiRead(0x80, 0x26, 0x02)
	require.True(t, ok)
	assert.Equal(t, []byte{0xb2, 0xa1}, data)
}

func TestSPIReadSliceBounds(t *testing.T) {
	for _, page := range []byte{0x60, 0x80} {
		full := spiROM[page]
		for offset := 0; offset+16 <= len(full); offset += 16 {
			data, ok := spiRead(page, byte(offset), 16)
			require.True(t, ok)
			assert.Equal(t, full[offset:offset+16], data, "page %#x offset %#x", page, offset)
		}
	}
}

func TestSPIReadUnknownPage(t *testing.T) {
	data, ok := spiRead(0x70, 0x00, 0x10)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestSPIReadPastPageEnd(t *testing.T) {
	data, ok := spiRead(0x80, 0x3c, 0x10)
	assert.True(t, ok)
	assert.Nil(t, data)
}
