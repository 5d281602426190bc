package dbf

import "errors"

var (
	// ErrOpen is returned when the path or stream cannot be used to open a table.
	ErrOpen = errors.New("dbf: cannot open table")
	// ErrTruncatedRead is returned when the header or descriptor table is shorter than its declared size.
	ErrTruncatedRead = errors.New("dbf: truncated read")

	ErrZeroOffset       = errors.New("dbf: record offset 0 is invalid")
	ErrPositiveOverflow = errors.New("dbf: record offset beyond last record")
	ErrNegativeOverflow = errors.New("dbf: negative record offset beyond first record")

	ErrEndOfTable     = errors.New("dbf: end of table")
	ErrLengthMismatch = errors.New("dbf: record length mismatch")
	ErrInvalidColumn  = errors.New("dbf: invalid column")
	ErrBufferTooSmall = errors.New("dbf: buffer too small")
	ErrInvalidField   = errors.New("dbf: invalid field definition")

	// ErrIO wraps failures of the underlying read, write or seek.
	ErrIO     = errors.New("dbf: i/o failure")
	ErrClosed = errors.New("dbf: table is closed")
)
