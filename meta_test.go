package dbf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader() Header {
	return Header{
		Version:      DBase4Memo,
		LastUpdate:   [3]byte{99, 12, 31},
		NumRecords:   0x01020304,
		HeaderLength: 0x0142,
		RecordLength: 0x00FF,
		Reserved:     [2]byte{1, 2},
		Transaction:  1,
		Encryption:   1,
		MultiUser:    [12]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		MDXFlag:      1,
		LanguageID:   0x57,
		Reserved3:    [2]byte{3, 4},
	}
}

func TestHeader_EncodeDecodeRoundTrip(t *testing.T) {
	h := sampleHeader()
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)

	b := h.Encode(now)
	require.Len(t, b, headerSize)

	got, err := DecodeHeader(b)
	require.NoError(t, err)
	assert.Equal(t, [3]byte{124, 3, 5}, got.LastUpdate)

	got.LastUpdate = h.LastUpdate
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("decoded header mismatch (-want +got):\n%s", diff)
	}

	again := got.Encode(now)
	assert.Equal(t, b[4:], again[4:])
	assert.Equal(t, b[0], again[0])
}

func TestHeader_EncodeLayout(t *testing.T) {
	b := sampleHeader().Encode(time.Date(2000, time.January, 2, 0, 0, 0, 0, time.Local))
	assert.Equal(t, byte(DBase4Memo), b[0])
	assert.Equal(t, []byte{100, 1, 2}, b[1:4])
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b[4:8])
	assert.Equal(t, []byte{0x42, 0x01}, b[8:10])
	assert.Equal(t, []byte{0xFF, 0x00}, b[10:12])
	assert.Equal(t, byte(1), b[14])
	assert.Equal(t, byte(1), b[15])
	assert.Equal(t, byte(12), b[27])
	assert.Equal(t, byte(1), b[28])
	assert.Equal(t, byte(0x57), b[29])
}

func TestHeader_EncodeDoesNotModifyReceiver(t *testing.T) {
	h := sampleHeader()
	h.Encode(time.Now())
	assert.Equal(t, [3]byte{99, 12, 31}, h.LastUpdate)
}

func TestDecodeHeader_Truncated(t *testing.T) {
	_, err := DecodeHeader(make([]byte, headerSize-1))
	assert.ErrorIs(t, err, ErrTruncatedRead)
}

func TestHeader_Date(t *testing.T) {
	h := Header{LastUpdate: [3]byte{124, 2, 29}}
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.Local), h.Date())
	assert.True(t, Header{}.Date().IsZero())
}

func TestComputeOffsets(t *testing.T) {
	tests := []struct {
		lengths []byte
		offsets []int
		recLen  int
	}{
		{nil, nil, 1},
		{[]byte{10}, []int{1}, 11},
		{[]byte{10, 8, 1}, []int{1, 11, 19}, 20},
		{[]byte{255, 255, 3}, []int{1, 256, 511}, 514},
	}
	for _, tt := range tests {
		fields := make([]FieldDescriptor, len(tt.lengths))
		for i, l := range tt.lengths {
			fields[i].Length = l
		}
		assert.Equal(t, tt.recLen, computeOffsets(fields))
		for i, f := range fields {
			assert.Equal(t, tt.offsets[i], f.Offset())
		}
	}
}

func TestColumnCount(t *testing.T) {
	assert.Equal(t, 0, columnCount(0))
	assert.Equal(t, 0, columnCount(32))
	assert.Equal(t, 0, columnCount(34))
	assert.Equal(t, 1, columnCount(66))
	assert.Equal(t, 3, columnCount(32+3*32+2))
	assert.Equal(t, 3, columnCount(32+3*32+1))
}

func TestFields_EncodeDecodeRoundTrip(t *testing.T) {
	name, err := NewField(Character, "NAME", 10, 0)
	require.NoError(t, err)
	amount, err := NewField(Numeric, "AMOUNT", 12, 2)
	require.NoError(t, err)
	amount.Address = 0xAABBCCDD
	amount.MDXFlag = 1
	amount.Reserved[0] = 7

	b := encodeFields([]FieldDescriptor{name, amount})
	require.Len(t, b, 2*descriptorSize+2)
	assert.Equal(t, []byte{0x0D, 0x00}, b[len(b)-2:])
	assert.Equal(t, []byte("AMOUNT\x00\x00\x00\x00\x00"), b[descriptorSize:descriptorSize+11])
	assert.Equal(t, byte('N'), b[descriptorSize+11])
	assert.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, b[descriptorSize+12:descriptorSize+16])

	fields, err := decodeFields(b, 2)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "NAME", fields[0].NameString())
	assert.Equal(t, Character, fields[0].Type)
	assert.Equal(t, 1, fields[0].Offset())
	assert.Equal(t, "AMOUNT", fields[1].NameString())
	assert.Equal(t, byte(12), fields[1].Length)
	assert.Equal(t, byte(2), fields[1].Decimals)
	assert.Equal(t, uint32(0xAABBCCDD), fields[1].Address)
	assert.Equal(t, byte(1), fields[1].MDXFlag)
	assert.Equal(t, byte(7), fields[1].Reserved[0])
	assert.Equal(t, 11, fields[1].Offset())

	want := []FieldDescriptor{name, amount}
	computeOffsets(want)
	if diff := cmp.Diff(want, fields, cmp.AllowUnexported(FieldDescriptor{})); diff != "" {
		t.Errorf("decoded fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFields_Truncated(t *testing.T) {
	_, err := decodeFields(make([]byte, descriptorSize+5), 2)
	assert.ErrorIs(t, err, ErrTruncatedRead)
}

func TestNewField_Validation(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		decimals int
		ok       bool
	}{
		{"NAME", 10, 0, true},
		{"ABCDEFGHIJ", 1, 0, true},
		{"", 10, 0, false},
		{"ABCDEFGHIJK", 10, 0, false},
		{"NA\x00ME", 10, 0, false},
		{"NÄME", 10, 0, false},
		{"NAME", 0, 0, false},
		{"NAME", 256, 0, false},
		{"NAME", 10, -1, false},
	}
	for _, tt := range tests {
		_, err := NewField(Character, tt.name, tt.length, tt.decimals)
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalidField, tt.name)
		}
	}
}

func TestFieldDescriptor_NameString(t *testing.T) {
	var f FieldDescriptor
	copy(f.Name[:], bytes.Repeat([]byte{'X'}, 11))
	assert.Equal(t, "XXXXXXXXXXX", f.NameString())
}

func TestFieldType_String(t *testing.T) {
	assert.Equal(t, "character", Character.String())
	assert.Equal(t, "memo", Memo.String())
	assert.Equal(t, `type 'Y'`, FieldType('Y').String())
}
