package dbf

import (
	"fmt"
	"io"
)

// Position returns the zero-based index of the record ReadNext reads next.
func (t *Table) Position() int {
	return t.cursor
}

// SetPosition moves the cursor. n counts from 1 at the first record; a
// negative n counts back from the end, so -1 selects the last record.
// It returns the new zero-based cursor.
func (t *Table) SetPosition(n int) (int, error) {
	if t.stream == nil {
		return t.cursor, ErrClosed
	}
	records := int(t.header.NumRecords)
	switch {
	case n == 0:
		return t.cursor, ErrZeroOffset
	case n > records:
		return t.cursor, fmt.Errorf("%w: %d > %d", ErrPositiveOverflow, n, records)
	case n < -records:
		return t.cursor, fmt.Errorf("%w: %d < -%d", ErrNegativeOverflow, n, records)
	}
	if n > 0 {
		t.cursor = n - 1
	} else {
		t.cursor = records + n
	}
	return t.cursor, nil
}

// ReadNext reads the record under the cursor into buf and advances the
// cursor. buf must hold at least RecordLength bytes; byte 0 receives the
// deletion flag unchanged. It returns the index of the record read.
func (t *Table) ReadNext(buf []byte) (int, error) {
	if t.stream == nil {
		return 0, ErrClosed
	}
	length := int(t.header.RecordLength)
	if len(buf) < length {
		return 0, fmt.Errorf("%w: %d < %d", ErrBufferTooSmall, len(buf), length)
	}
	if t.cursor >= int(t.header.NumRecords) {
		return 0, ErrEndOfTable
	}
	off := int64(t.header.HeaderLength) + int64(t.cursor)*int64(length)
	if _, err := t.stream.Seek(off, io.SeekStart); err != nil {
		return 0, ioError("seek record", err)
	}
	if _, err := io.ReadFull(t.stream, buf[:length]); err != nil {
		return 0, ioError(fmt.Sprintf("read record %d", t.cursor), err)
	}
	t.cursor++
	return t.cursor - 1, nil
}

// FieldValue returns the bytes of column within record. The result shares
// memory with record.
func (t *Table) FieldValue(record []byte, column int) ([]byte, error) {
	f, err := t.Field(column)
	if err != nil {
		return nil, err
	}
	end := f.offset + int(f.Length)
	if end > len(record) {
		return nil, fmt.Errorf("%w: record has %d bytes, column %d ends at %d", ErrBufferTooSmall, len(record), column, end)
	}
	return record[f.offset:end:end], nil
}
