package dbf

import (
	"encoding/binary"
	"math/bits"
)

// Multi-byte integers in a table file are always stored little-endian.

func toHost16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

func toHost32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func fromHost16(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

func fromHost32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// rotate16 swaps the two bytes of v.
func rotate16(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// rotate32 reverses the byte order of v.
func rotate32(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}
