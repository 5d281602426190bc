// Package mapping maps table records onto Go structs tagged with `dbf:"column"`.
package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/axgle/mahonia"
	"golang.org/x/sync/errgroup"

	dbf "github.com/Ulysses-Xu/go-dbf/v2"
	"github.com/Ulysses-Xu/go-dbf/v2/internal/logging"
)

// Mapper reads and appends records of one table as structs. Unlike a
// dbf.Table, a Mapper may be shared between goroutines; it serializes all
// access to the table it wraps.
type Mapper struct {
	mu      sync.Mutex
	table   *dbf.Table
	encoder mahonia.Encoder
	decoder mahonia.Decoder
	log     *slog.Logger

	fields    []dbf.FieldDescriptor
	modelType reflect.Type
	// modelColumn maps an upper-cased tag to a struct field index.
	modelColumn map[string]int
	// columnField maps a column index to a struct field index, -1 if unmapped.
	columnField []int
}

// Option configures a Mapper.
type Option func(*Mapper)

func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.log = l
		}
	}
}

// New binds model, a pointer to a struct, to the columns of table. Struct
// fields are matched to columns by their dbf tag, case-insensitively.
// Character values are converted from and to encoding.
func New(table *dbf.Table, encoding string, model interface{}, opts ...Option) (*Mapper, error) {
	encoder := mahonia.NewEncoder(encoding)
	decoder := mahonia.NewDecoder(encoding)
	if encoder == nil || decoder == nil {
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
	m := &Mapper{
		table:   table,
		encoder: encoder,
		decoder: decoder,
		log:     logging.Discard(),
		fields:  table.Fields(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.initModel(model, table.Columns()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mapper) initModel(model interface{}, columns []string) error {
	rt := reflect.TypeOf(model)
	if rt == nil || rt.Kind() != reflect.Ptr {
		return errors.New("model must be a pointer to a struct")
	}

	rt = rt.Elem()
	if rt.Kind() != reflect.Struct {
		return fmt.Errorf("model must be a pointer to a struct, not a %v", rt.Kind())
	}
	modelColumnIndex := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		dbfColumn := field.Tag.Get("dbf")
		if dbfColumn == "" || dbfColumn == "-" || !field.IsExported() {
			continue
		}
		modelColumnIndex[strings.ToUpper(dbfColumn)] = i
	}

	m.modelType = rt
	m.modelColumn = modelColumnIndex
	m.bindColumns(columns)
	return nil
}

func (m *Mapper) bindColumns(columns []string) {
	m.columnField = make([]int, len(columns))
	for i, column := range columns {
		fieldIndex, ok := m.modelColumn[strings.ToUpper(column)]
		if !ok {
			fieldIndex = -1
			m.log.Debug("column not mapped", "column", column)
		}
		m.columnField[i] = fieldIndex
	}
}

// Reload re-reads the table metadata, so that records appended by another
// process become visible, and binds the model to the reloaded columns.
func (m *Mapper) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.table.Reload(); err != nil {
		return err
	}
	m.fields = m.table.Fields()
	m.bindColumns(m.table.Columns())
	return nil
}

func (m *Mapper) NumRecords() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.NumRows()
}

// readRaw reads the record at the zero-based index into buf.
func (m *Mapper) readRaw(index uint32, buf []byte) error {
	if index >= m.table.NumRows() {
		return fmt.Errorf("index %d out of range", index)
	}
	if _, err := m.table.SetPosition(int(index) + 1); err != nil {
		return err
	}
	_, err := m.table.ReadNext(buf)
	return err
}

// IsDeleted reports whether the record at index carries the deletion mark.
func (m *Mapper) IsDeleted(index uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, m.table.RecordLength())
	if err := m.readRaw(index, buf); err != nil {
		return false, err
	}
	return buf[0] == '*', nil
}

// GetRecord decodes the record at the zero-based index into v, a pointer to
// a struct of the model type.
func (m *Mapper) GetRecord(index uint32, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("GetRecord requires a non-nil pointer to a struct")
	}
	rv = rv.Elem()
	if rv.Type() != m.modelType {
		return fmt.Errorf("GetRecord requires a pointer to %s, not a %s", m.modelType, rv.Type())
	}

	m.mu.Lock()
	buf := make([]byte, m.table.RecordLength())
	err := m.readRaw(index, buf)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.decodeRecord(buf, rv)
}

// GetRecords decodes records [start, end) into v, a pointer to a slice of
// model structs with at least end-start elements. Records are read in order
// and decoded by up to workerNums goroutines.
func (m *Mapper) GetRecords(start, end uint32, v interface{}, workerNums int) error {
	if start > end {
		return fmt.Errorf("invalid range [%d, %d)", start, end)
	}
	rt := reflect.TypeOf(v)
	if rt == nil || rt.Kind() != reflect.Ptr {
		return fmt.Errorf("GetRecords requires a pointer to a slice, not a %v", rt)
	}
	if rt.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("GetRecords requires a pointer to a slice, not a %s", rt.Elem().Kind())
	}
	if rt.Elem().Elem() != m.modelType {
		return fmt.Errorf("GetRecords requires a pointer to a slice of %s, not of %s", m.modelType, rt.Elem().Elem())
	}
	rv := reflect.ValueOf(v).Elem()
	if rv.Len() < int(end-start) {
		return errors.New("value out of range")
	}
	if workerNums < 1 {
		workerNums = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if end > m.table.NumRows() {
		return fmt.Errorf("index %d out of range", end)
	}
	if start == end {
		return nil
	}
	if _, err := m.table.SetPosition(int(start) + 1); err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(workerNums)
	for i := 0; i < int(end-start); i++ {
		buf := make([]byte, m.table.RecordLength())
		if _, err := m.table.ReadNext(buf); err != nil {
			_ = g.Wait()
			return err
		}
		elem := rv.Index(i)
		g.Go(func() error {
			return m.decodeRecord(buf, elem)
		})
	}
	return g.Wait()
}

// Append formats model into the column layout and appends it as an active
// record. Character values are truncated to the column width; numbers that
// do not fit fail.
func (m *Mapper) Append(model interface{}) error {
	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("Append requires a non-nil pointer to a struct")
	}
	rv = rv.Elem()
	if rv.Type() != m.modelType {
		return fmt.Errorf("Append requires a pointer to %s, not a %s", m.modelType, rv.Type())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.table.RecordLength() == 0 {
		return dbf.ErrClosed
	}
	// Field bytes only; the table writes the deletion flag itself.
	buf := bytes.Repeat([]byte{dbf.SPACE}, m.table.RecordLength()-1)
	for i, f := range m.fields {
		fieldIndex := m.columnField[i]
		if fieldIndex < 0 {
			continue
		}
		pos := f.Offset() - 1
		if err := m.encodeValue(f, rv.Field(fieldIndex), buf[pos:pos+int(f.Length)]); err != nil {
			return fmt.Errorf("column %s: %w", f.NameString(), err)
		}
	}
	n, err := m.table.AppendRecord(buf)
	if err != nil {
		return err
	}
	m.log.Debug("model appended", "rows", n)
	return nil
}

// decodeRecord only touches the mapper's own descriptor copy so that it can
// run while the table reads the next record.
func (m *Mapper) decodeRecord(record []byte, rv reflect.Value) error {
	for i, f := range m.fields {
		fieldIndex := m.columnField[i]
		if fieldIndex < 0 {
			continue
		}
		end := f.Offset() + int(f.Length)
		if end > len(record) {
			return fmt.Errorf("column %s: record too short", f.NameString())
		}
		value := record[f.Offset():end]
		if err := m.decodeValue(f, value, rv.Field(fieldIndex)); err != nil {
			return fmt.Errorf("column %s: %w", f.NameString(), err)
		}
	}
	return nil
}
