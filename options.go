package murmur

import (
	"io"
	"log/slog"
)

// Option configures a core component.
type Option func(*options)

type options struct {
	onEvent func(Event)
	logger  *slog.Logger
}

// WithEventHandler sets a callback that receives every Event the component
// produces. If nil or not set, events are discarded. The handler must not
// block for long or call back into the component; it may run while the
// component holds its lock.
func WithEventHandler(h func(Event)) Option {
	return func(o *options) {
		o.onEvent = h
	}
}

// WithLogger sets the logger for diagnostic output. Defaults to a logger that
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

func (o options) emit(evt Event) {
	if o.onEvent != nil {
		o.onEvent(evt)
	}
}
