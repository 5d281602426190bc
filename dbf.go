package dbf

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/axgle/mahonia"
)

const (
	SPACE     = 0x20
	NUL       = 0x00
	EOFMarker = 0x1A
)

// Stream is the byte stream a Table reads from and writes to.
type Stream interface {
	io.ReadWriteSeeker
	io.Closer
}

// Table is an open dBASE table. It owns its stream, header, descriptors and
// record cursor. A Table is not safe for concurrent use.
type Table struct {
	name    string
	stream  Stream
	header  Header
	fields  []FieldDescriptor
	columns []string
	cursor  int

	decoder mahonia.Decoder
	now     func() time.Time
	log     *slog.Logger
}

func newTable(name string, s Stream, o *options) *Table {
	return &Table{
		name:    name,
		stream:  s,
		decoder: o.decoder,
		now:     o.now,
		log:     o.logger.With("table", name),
	}
}

// Close releases the stream and discards header and descriptor state.
func (t *Table) Close() error {
	if t.stream == nil {
		return ErrClosed
	}
	err := t.stream.Close()
	t.log.Debug("table closed", "rows", t.header.NumRecords)
	t.stream = nil
	t.header = Header{}
	t.fields = nil
	t.columns = nil
	t.cursor = 0
	if err != nil {
		return ioError("close", err)
	}
	return nil
}

func (t *Table) NumRows() uint32 {
	return t.header.NumRecords
}

func (t *Table) NumCols() int {
	return len(t.fields)
}

// Header returns a copy of the decoded header.
func (t *Table) Header() Header {
	return t.header
}

func (t *Table) HeaderSize() int {
	return int(t.header.HeaderLength)
}

// RecordLength returns the size of one record including the deletion flag.
func (t *Table) RecordLength() int {
	return int(t.header.RecordLength)
}

func (t *Table) Version() byte {
	return t.header.Version
}

func (t *Table) VersionName() string {
	return VersionName(t.header.Version)
}

func (t *Table) IsMemo() bool {
	return t.header.IsMemo()
}

func (t *Table) LastUpdate() time.Time {
	return t.header.Date()
}

// DateString formats the last update date as yyyy-mm-dd. It is empty when the
// header carries no date.
func (t *Table) DateString() string {
	if t.header.LastUpdate[0] == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%02d-%02d", 1900+int(t.header.LastUpdate[0]), t.header.LastUpdate[1], t.header.LastUpdate[2])
}

// Fields returns a copy of the descriptor array.
func (t *Table) Fields() []FieldDescriptor {
	fields := make([]FieldDescriptor, len(t.fields))
	copy(fields, t.fields)
	return fields
}

// Columns returns the decoded column names in descriptor order.
func (t *Table) Columns() []string {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return columns
}

func (t *Table) Field(column int) (FieldDescriptor, error) {
	if t.stream == nil {
		return FieldDescriptor{}, ErrClosed
	}
	if column < 0 || column >= len(t.fields) {
		return FieldDescriptor{}, fmt.Errorf("%w: %d of %d", ErrInvalidColumn, column, len(t.fields))
	}
	return t.fields[column], nil
}

func (t *Table) ColumnName(column int) (string, error) {
	if _, err := t.Field(column); err != nil {
		return "", err
	}
	return t.columns[column], nil
}

func (t *Table) ColumnType(column int) (FieldType, error) {
	f, err := t.Field(column)
	return f.Type, err
}

func (t *Table) ColumnSize(column int) (int, error) {
	f, err := t.Field(column)
	return int(f.Length), err
}

func (t *Table) ColumnDecimals(column int) (int, error) {
	f, err := t.Field(column)
	return int(f.Decimals), err
}

// ColumnAddress returns the legacy address stored in the descriptor. It is
// never used to locate data.
func (t *Table) ColumnAddress(column int) (uint32, error) {
	f, err := t.Field(column)
	return f.Address, err
}

func (t *Table) setFields(fields []FieldDescriptor) {
	t.fields = fields
	t.columns = make([]string, len(fields))
	for i, f := range fields {
		t.columns[i] = strings.TrimSpace(t.decoder.ConvertString(f.NameString()))
	}
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
