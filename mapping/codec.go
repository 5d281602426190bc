package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	dbf "github.com/Ulysses-Xu/go-dbf/v2"
)

const dateLayout = "20060102"

var (
	timeType = reflect.TypeOf(time.Time{})

	// ErrValueTooLong is returned by Append when a number or date does not fit its column.
	ErrValueTooLong = errors.New("value does not fit column")
)

func (m *Mapper) decodeValue(f dbf.FieldDescriptor, raw []byte, fieldValue reflect.Value) error {
	columnVal := strings.Trim(string(raw), " \x00")
	if columnVal == "" {
		return nil
	}
	if fieldValue.Type() == timeType {
		d, err := time.ParseInLocation(dateLayout, columnVal, time.Local)
		if err != nil {
			return err
		}
		fieldValue.Set(reflect.ValueOf(d))
		return nil
	}
	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(m.decoder.ConvertString(columnVal))
	case reflect.Bool:
		switch columnVal {
		case "T", "t", "Y", "y":
			fieldValue.SetBool(true)
		case "F", "f", "N", "n", "?":
			fieldValue.SetBool(false)
		default:
			return fmt.Errorf("invalid logical value %q", columnVal)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := strconv.ParseInt(columnVal, 10, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetInt(num)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		num, err := strconv.ParseUint(columnVal, 10, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetUint(num)
	case reflect.Float32, reflect.Float64:
		num, err := strconv.ParseFloat(columnVal, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetFloat(num)
	default:
		return fmt.Errorf("unsupported field kind %s", fieldValue.Kind())
	}
	return nil
}

// encodeValue writes fieldVal into dst, which is pre-filled with spaces and
// exactly as wide as the column.
func (m *Mapper) encodeValue(f dbf.FieldDescriptor, fieldVal reflect.Value, dst []byte) error {
	var valStr string
	if fieldVal.Type() == timeType {
		d := fieldVal.Interface().(time.Time)
		if d.IsZero() {
			return nil
		}
		return fit(dst, d.Format(dateLayout), false)
	}
	switch fieldVal.Kind() {
	case reflect.String:
		// Character values are truncated like the column width demands.
		copy(dst, m.encoder.ConvertString(fieldVal.String()))
		return nil
	case reflect.Bool:
		valStr = "F"
		if fieldVal.Bool() {
			valStr = "T"
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		valStr = strconv.FormatInt(fieldVal.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		valStr = strconv.FormatUint(fieldVal.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		valStr = strconv.FormatFloat(fieldVal.Float(), 'f', int(f.Decimals), 64)
	default:
		return fmt.Errorf("unsupported field kind %s", fieldVal.Kind())
	}
	return fit(dst, valStr, f.Type == dbf.Numeric || f.Type == dbf.Float)
}

// fit copies s into dst, right-aligned when rightAlign is set.
func fit(dst []byte, s string, rightAlign bool) error {
	if len(s) > len(dst) {
		return fmt.Errorf("%w: %q is wider than %d", ErrValueTooLong, s, len(dst))
	}
	if rightAlign {
		copy(dst[len(dst)-len(s):], s)
	} else {
		copy(dst, s)
	}
	return nil
}

// Pad lays out an already encoded value s in the column width of f. Numeric
// and float columns are right-aligned; character values are truncated, any
// other value that does not fit fails with ErrValueTooLong.
func Pad(f dbf.FieldDescriptor, s string) ([]byte, error) {
	dst := bytes.Repeat([]byte{dbf.SPACE}, int(f.Length))
	if f.Type == dbf.Character || f.Type == dbf.Memo {
		copy(dst, s)
		return dst, nil
	}
	if err := fit(dst, s, f.Type == dbf.Numeric || f.Type == dbf.Float); err != nil {
		return nil, err
	}
	return dst, nil
}
