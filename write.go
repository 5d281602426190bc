package dbf

import (
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/multierr"
)

// Create creates or truncates the file at path and writes an empty table
// with the given columns.
func Create(path string, fields []FieldDescriptor, opts ...Option) (*Table, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	t := newTable(path, f, o)
	if err := t.initNew(fields); err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	return t, nil
}

// CreateStream writes an empty table with the given columns to s, starting
// at offset 0. On failure s is left open for the caller.
func CreateStream(s Stream, fields []FieldDescriptor, opts ...Option) (*Table, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil stream", ErrOpen)
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	t := newTable("stream", s, o)
	if err := t.initNew(fields); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) initNew(fields []FieldDescriptor) error {
	headerLength := headerSize + len(fields)*descriptorSize + 2
	if headerLength > math.MaxUint16 {
		return fmt.Errorf("%w: %d columns exceed the header size limit", ErrInvalidField, len(fields))
	}
	owned := make([]FieldDescriptor, len(fields))
	copy(owned, fields)
	recordLength := computeOffsets(owned)
	if recordLength > math.MaxUint16 {
		return fmt.Errorf("%w: record length %d exceeds the limit", ErrInvalidField, recordLength)
	}

	t.header = Header{
		Version:      FoxBasePlus,
		HeaderLength: uint16(headerLength),
		RecordLength: uint16(recordLength),
	}
	if err := t.writeHeader(); err != nil {
		return err
	}
	if err := t.writeFields(owned); err != nil {
		return err
	}
	t.setFields(owned)
	t.cursor = 0
	t.log.Debug("table created", "cols", len(owned), "record_length", recordLength)
	return nil
}

// AppendRecord appends one active record. data holds the field bytes only and
// must be exactly RecordLength-1 bytes long. The record is written first and
// the header rewritten afterwards; the two writes are not atomic. It returns
// the new number of records.
func (t *Table) AppendRecord(data []byte) (uint32, error) {
	if t.stream == nil {
		return 0, ErrClosed
	}
	if want := int(t.header.RecordLength) - 1; len(data) != want {
		return t.header.NumRecords, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(data), want)
	}
	end, err := t.appendOffset()
	if err != nil {
		return t.header.NumRecords, err
	}
	if _, err := t.stream.Seek(end, io.SeekStart); err != nil {
		return t.header.NumRecords, ioError("seek end", err)
	}
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, SPACE)
	buf = append(buf, data...)
	if _, err := t.stream.Write(buf); err != nil {
		return t.header.NumRecords, ioError("write record", err)
	}
	t.header.NumRecords++
	if err := t.writeHeader(); err != nil {
		return t.header.NumRecords, err
	}
	t.log.Debug("record appended", "rows", t.header.NumRecords)
	return t.header.NumRecords, nil
}

// appendOffset returns the end of the stream, or the position of a trailing
// EOFMarker that sits past the last whole record.
func (t *Table) appendOffset() (int64, error) {
	end, err := t.stream.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ioError("seek end", err)
	}
	body := end - int64(t.header.HeaderLength)
	if body <= 0 || body%int64(t.header.RecordLength) == 0 {
		return end, nil
	}
	last := make([]byte, 1)
	if err := t.readAt(end-1, last); err != nil {
		return 0, err
	}
	if last[0] == EOFMarker {
		end--
	}
	return end, nil
}

// writeHeader stamps the current date and writes the header at offset 0,
// independent of the stream position.
func (t *Table) writeHeader() error {
	buf := t.header.Encode(t.now())
	if _, err := t.stream.Seek(0, io.SeekStart); err != nil {
		return ioError("seek header", err)
	}
	if _, err := t.stream.Write(buf); err != nil {
		return ioError("write header", err)
	}
	copy(t.header.LastUpdate[:], buf[1:4])
	return nil
}

func (t *Table) writeFields(fields []FieldDescriptor) error {
	if _, err := t.stream.Seek(headerSize, io.SeekStart); err != nil {
		return ioError("seek descriptors", err)
	}
	if _, err := t.stream.Write(encodeFields(fields)); err != nil {
		return ioError("write descriptors", err)
	}
	return nil
}
