package dbf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndian_LittleEndianOnDisk(t *testing.T) {
	assert.Equal(t, uint16(0x1234), toHost16([]byte{0x34, 0x12}))
	assert.Equal(t, uint32(0x12345678), toHost32([]byte{0x78, 0x56, 0x34, 0x12}))

	b := make([]byte, 4)
	fromHost16(b, 0xBEEF)
	assert.Equal(t, []byte{0xEF, 0xBE, 0, 0}, b)
	fromHost32(b, 0xDEADBEEF)
	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, b)
}

func TestEndian_RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	for _, v := range []uint32{0, 1, 0xFF, 0x100, 0xFFFF, 0x10000, 0x7FFFFFFF, math.MaxUint32} {
		fromHost32(b, v)
		assert.Equal(t, v, toHost32(b))
		fromHost16(b, uint16(v))
		assert.Equal(t, uint16(v), toHost16(b))
	}
}

func TestEndian_Rotate16IsInvolution(t *testing.T) {
	for v := 0; v <= math.MaxUint16; v++ {
		if got := rotate16(rotate16(uint16(v))); got != uint16(v) {
			t.Fatalf("rotate16 twice on %#04x = %#04x", v, got)
		}
	}
	assert.Equal(t, uint16(0x3412), rotate16(0x1234))
}

func TestEndian_Rotate32IsInvolution(t *testing.T) {
	for v := uint64(0); v <= math.MaxUint32; v += 65521 {
		if got := rotate32(rotate32(uint32(v))); got != uint32(v) {
			t.Fatalf("rotate32 twice on %#08x = %#08x", v, got)
		}
	}
	assert.Equal(t, uint32(math.MaxUint32), rotate32(rotate32(math.MaxUint32)))
	assert.Equal(t, uint32(0x78563412), rotate32(0x12345678))
}
