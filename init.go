package dbf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// Open opens the table file at path and loads its header and descriptors.
// On failure no handle is returned and the file is closed again.
func Open(path string, opts ...Option) (*Table, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	flag := os.O_RDWR
	if o.readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	t := newTable(path, f, o)
	if err := t.initMetaData(); err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	return t, nil
}

// OpenStream loads a table from an already open stream. The returned Table
// owns s and closes it on Close. On failure s is left open for the caller.
func OpenStream(s Stream, opts ...Option) (*Table, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil stream", ErrOpen)
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	t := newTable("stream", s, o)
	if err := t.initMetaData(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-reads the header and descriptors from the stream, picking up
// records appended through another handle. The cursor returns to the first
// record. On failure the previous metadata is kept.
func (t *Table) Reload() error {
	if t.stream == nil {
		return ErrClosed
	}
	header, fields, columns := t.header, t.fields, t.columns
	if err := t.initMetaData(); err != nil {
		t.header, t.fields, t.columns = header, fields, columns
		return err
	}
	return nil
}

func (t *Table) initMetaData() error {
	if err := t.initHeader(); err != nil {
		return err
	}
	if err := t.initFields(); err != nil {
		return err
	}
	t.cursor = 0
	t.log.Debug("table opened", "rows", t.header.NumRecords, "cols", len(t.fields), "version", VersionName(t.header.Version))
	return nil
}

func (t *Table) initHeader() error {
	buf := make([]byte, headerSize)
	if err := t.readAt(0, buf); err != nil {
		return err
	}
	header, err := DecodeHeader(buf)
	if err != nil {
		return err
	}
	t.header = header
	return nil
}

func (t *Table) initFields() error {
	n := columnCount(t.header.HeaderLength)
	buf := make([]byte, n*descriptorSize)
	if err := t.readAt(headerSize, buf); err != nil {
		return err
	}
	fields, err := decodeFields(buf, n)
	if err != nil {
		return err
	}
	t.setFields(fields)
	return nil
}

// readAt fills buf from the absolute offset off. A short read of the metadata
// area is reported as ErrTruncatedRead.
func (t *Table) readAt(off int64, buf []byte) error {
	if _, err := t.stream.Seek(off, io.SeekStart); err != nil {
		return ioError("seek", err)
	}
	n, err := io.ReadFull(t.stream, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: got %d of %d bytes at offset %d", ErrTruncatedRead, n, len(buf), off)
	}
	if err != nil {
		return ioError("read", err)
	}
	return nil
}
