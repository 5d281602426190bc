package dbf

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/axgle/mahonia"

	"github.com/Ulysses-Xu/go-dbf/v2/internal/logging"
)

const defaultEncoding = "utf-8"

type options struct {
	logger   *slog.Logger
	encoding string
	readOnly bool
	now      func() time.Time

	decoder mahonia.Decoder
}

// Option configures Open and Create.
type Option func(*options)

// WithLogger routes debug logging of table lifecycle events to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEncoding sets the charset used to decode column names.
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithReadOnly opens the file without write access. Appends then fail with ErrIO.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithClock replaces the source of the date stamped into every header write.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		logger:   logging.Discard(),
		encoding: defaultEncoding,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if o.now == nil {
		o.now = time.Now
	}
	o.decoder = mahonia.NewDecoder(o.encoding)
	if o.decoder == nil {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrOpen, o.encoding)
	}
	return o, nil
}
