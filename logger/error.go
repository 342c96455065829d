package logger

import (
	"context"
	"log/slog"
	"time"
)

// AnnotateError attaches slog key-value pairs to err. Loggers set up by
// ConfigureLogging print them next to the error.
//
// Annotations stack. An annotated error can be wrapped (with fmt.Errorf, or
// joined with errors.Join) and annotated again; every level is logged, and
// when two levels use the same key the outer one wins.
//
//	err := AnnotateError(errUnordered, "record", i)
//	return AnnotateError(fmt.Errorf("%w: %w", ErrTrialFailed, err), "trial", n)
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	return &annotatedError{err: err, attrs: toAttrs(args)}
}

func toAttrs(args []any) []slog.Attr {
	r := slog.NewRecord(time.Time{}, slog.LevelDebug, "", 0)
	r.Add(args...)

	attrs := make([]slog.Attr, 0, r.NumAttrs())

	r.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)

		return true
	})

	return attrs
}

type annotatedError struct {
	err   error
	attrs []slog.Attr
}

func (e *annotatedError) Error() string {
	return e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// ErrorAttrs returns every attribute attached to err or to an error it wraps,
// outermost annotation first. Only the first occurrence of a key is kept.
func ErrorAttrs(err error) []slog.Attr {
	c := attrCollector{seen: make(map[string]struct{})}
	c.walk(err)

	return c.attrs
}

type attrCollector struct {
	attrs []slog.Attr
	seen  map[string]struct{}
}

func (c *attrCollector) add(attrs []slog.Attr) {
	for _, attr := range attrs {
		if _, dup := c.seen[attr.Key]; dup {
			continue
		}

		c.seen[attr.Key] = struct{}{}
		c.attrs = append(c.attrs, attr)
	}
}

func (c *attrCollector) walk(err error) {
	for err != nil {
		if ae, ok := err.(*annotatedError); ok { //nolint:errorlint
			c.add(ae.attrs)
		}

		switch u := err.(type) { //nolint:errorlint
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				c.walk(inner)
			}

			return
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return
		}
	}
}

// annotationHandler is a slog.Handler decorator. For every error-valued
// attribute of a record it appends the error's ErrorAttrs, skipping keys the
// record already carries.
type annotationHandler struct {
	inner slog.Handler
}

var _ slog.Handler = (*annotationHandler)(nil)

func (h *annotationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *annotationHandler) Handle(ctx context.Context, record slog.Record) error {
	c := attrCollector{seen: make(map[string]struct{}, record.NumAttrs())}

	var extra []slog.Attr

	record.Attrs(func(attr slog.Attr) bool {
		c.seen[attr.Key] = struct{}{}

		if err, ok := attr.Value.Any().(error); ok {
			extra = append(extra, ErrorAttrs(err)...)
		}

		return true
	})

	c.add(extra)

	if len(c.attrs) == 0 {
		return h.inner.Handle(ctx, record)
	}

	r := record.Clone()
	r.AddAttrs(c.attrs...)

	return h.inner.Handle(ctx, r)
}

func (h *annotationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &annotationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *annotationHandler) WithGroup(name string) slog.Handler {
	return &annotationHandler{inner: h.inner.WithGroup(name)}
}
