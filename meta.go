package dbf

import (
	"bytes"
	"fmt"
	"time"
)

const (
	headerSize     = 32
	descriptorSize = 32
	maxNameLength  = 10
)

// Header represents the fixed 32 byte header at the start of every table file.
type Header struct {
	Version byte
	// LastUpdate holds the year offset from 1900, the month and the day.
	LastUpdate   [3]byte
	NumRecords   uint32
	HeaderLength uint16
	RecordLength uint16
	Reserved     [2]byte
	Transaction  byte
	Encryption   byte
	MultiUser    [12]byte
	MDXFlag      byte
	LanguageID   byte
	Reserved3    [2]byte
}

// DecodeHeader parses the first 32 bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < headerSize {
		return h, fmt.Errorf("%w: header has %d of %d bytes", ErrTruncatedRead, len(b), headerSize)
	}
	h.Version = b[0]
	copy(h.LastUpdate[:], b[1:4])
	h.NumRecords = toHost32(b[4:8])
	h.HeaderLength = toHost16(b[8:10])
	h.RecordLength = toHost16(b[10:12])
	copy(h.Reserved[:], b[12:14])
	h.Transaction = b[14]
	h.Encryption = b[15]
	copy(h.MultiUser[:], b[16:28])
	h.MDXFlag = b[28]
	h.LanguageID = b[29]
	copy(h.Reserved3[:], b[30:32])
	return h, nil
}

// Encode returns the on-disk form of h with the last update date set to now.
// h itself is not modified.
func (h Header) Encode(now time.Time) []byte {
	b := make([]byte, headerSize)
	year, month, day := now.Date()
	b[0] = h.Version
	b[1] = byte(year - 1900)
	b[2] = byte(month)
	b[3] = byte(day)
	fromHost32(b[4:8], h.NumRecords)
	fromHost16(b[8:10], h.HeaderLength)
	fromHost16(b[10:12], h.RecordLength)
	copy(b[12:14], h.Reserved[:])
	b[14] = h.Transaction
	b[15] = h.Encryption
	copy(b[16:28], h.MultiUser[:])
	b[28] = h.MDXFlag
	b[29] = h.LanguageID
	copy(b[30:32], h.Reserved3[:])
	return b
}

// IsMemo reports whether the version byte announces a companion memo file.
func (h Header) IsMemo() bool {
	return h.Version&0x80 == 0x80
}

// Date returns the last update date, or the zero time when no year is stored.
func (h Header) Date() time.Time {
	if h.LastUpdate[0] == 0 {
		return time.Time{}
	}
	return time.Date(1900+int(h.LastUpdate[0]), time.Month(h.LastUpdate[1]), int(h.LastUpdate[2]), 0, 0, 0, 0, time.Local)
}

// FieldType is the single character type tag of a column.
type FieldType byte

const (
	Character FieldType = 'C'
	Numeric   FieldType = 'N'
	Float     FieldType = 'F'
	Date      FieldType = 'D'
	Logical   FieldType = 'L'
	Memo      FieldType = 'M'
)

func (t FieldType) String() string {
	switch t {
	case Character:
		return "character"
	case Numeric:
		return "numeric"
	case Float:
		return "float"
	case Date:
		return "date"
	case Logical:
		return "logical"
	case Memo:
		return "memo"
	default:
		return fmt.Sprintf("type %q", byte(t))
	}
}

// FieldDescriptor represents the structure of a field descriptor in a table file.
type FieldDescriptor struct {
	Name     [11]byte
	Type     FieldType
	Address  uint32
	Length   byte
	Decimals byte
	Reserved [13]byte
	MDXFlag  byte

	// offset of the field inside a record, derived after decoding.
	offset int
}

// NewField builds a descriptor for table creation. The name must be 1 to 10
// ASCII characters and the length at least 1.
func NewField(typ FieldType, name string, length, decimals int) (FieldDescriptor, error) {
	var f FieldDescriptor
	if name == "" || len(name) > maxNameLength {
		return f, fmt.Errorf("%w: name %q must have 1 to %d characters", ErrInvalidField, name, maxNameLength)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 || name[i] > 0x7F {
			return f, fmt.Errorf("%w: name %q is not plain ASCII", ErrInvalidField, name)
		}
	}
	if length < 1 || length > 255 {
		return f, fmt.Errorf("%w: length %d of %q out of range", ErrInvalidField, length, name)
	}
	if decimals < 0 || decimals > 255 {
		return f, fmt.Errorf("%w: decimals %d of %q out of range", ErrInvalidField, decimals, name)
	}
	copy(f.Name[:], name)
	f.Type = typ
	f.Length = byte(length)
	f.Decimals = byte(decimals)
	return f, nil
}

// NameString returns the field name without its NUL padding.
func (f FieldDescriptor) NameString() string {
	index := bytes.IndexByte(f.Name[:], NUL)
	if index == -1 {
		index = len(f.Name)
	}
	return string(f.Name[:index])
}

// Offset returns the position of the field inside a record. Byte 0 of every
// record is the deletion flag, so the first field starts at 1.
func (f FieldDescriptor) Offset() int {
	return f.offset
}

func decodeField(b []byte) FieldDescriptor {
	var f FieldDescriptor
	copy(f.Name[:], b[0:11])
	f.Type = FieldType(b[11])
	f.Address = toHost32(b[12:16])
	f.Length = b[16]
	f.Decimals = b[17]
	copy(f.Reserved[:], b[18:31])
	f.MDXFlag = b[31]
	return f
}

func (f FieldDescriptor) encode(b []byte) {
	copy(b[0:11], f.Name[:])
	b[11] = byte(f.Type)
	fromHost32(b[12:16], f.Address)
	b[16] = f.Length
	b[17] = f.Decimals
	copy(b[18:31], f.Reserved[:])
	b[31] = f.MDXFlag
}

// columnCount derives the number of descriptors from the header length.
// Dialects that append a backlink area after the terminator are not accounted for.
func columnCount(headerLength uint16) int {
	n := (int(headerLength) - headerSize - 1) / descriptorSize
	if n < 0 {
		return 0
	}
	return n
}

// decodeFields parses n consecutive descriptors and computes their offsets.
func decodeFields(b []byte, n int) ([]FieldDescriptor, error) {
	if len(b) < n*descriptorSize {
		return nil, fmt.Errorf("%w: descriptor table has %d of %d bytes", ErrTruncatedRead, len(b), n*descriptorSize)
	}
	fields := make([]FieldDescriptor, n)
	for i := 0; i < n; i++ {
		fields[i] = decodeField(b[i*descriptorSize : (i+1)*descriptorSize])
	}
	computeOffsets(fields)
	return fields, nil
}

// computeOffsets assigns each field its running offset and returns the
// resulting record length including the deletion flag.
func computeOffsets(fields []FieldDescriptor) int {
	offset := 1
	for i := range fields {
		fields[i].offset = offset
		offset += int(fields[i].Length)
	}
	return offset
}

// encodeFields serializes the descriptor table followed by its terminator.
func encodeFields(fields []FieldDescriptor) []byte {
	b := make([]byte, len(fields)*descriptorSize+2)
	for i, f := range fields {
		f.encode(b[i*descriptorSize : (i+1)*descriptorSize])
	}
	b[len(b)-2] = 0x0D
	b[len(b)-1] = 0x00
	return b
}
