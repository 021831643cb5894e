package consumer

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// DefaultLabel prefixes every reported number.
const DefaultLabel = "number is"

// Reporter publishes the number obtained from each object.
type Reporter interface {
	Report(ctx context.Context, value int32)
}

// WriterReporter prints "<label> <value>" lines.
type WriterReporter struct {
	w     io.Writer
	label string
}

// NewWriterReporter reports to w, or stdout when w is nil, with label or DefaultLabel.
func NewWriterReporter(w io.Writer, label string) *WriterReporter {
	if w == nil {
		w = os.Stdout
	}
	if label == "" {
		label = DefaultLabel
	}
	return &WriterReporter{w: w, label: label}
}

// Report implements Reporter.
func (r *WriterReporter) Report(_ context.Context, value int32) {
	fmt.Fprintf(r.w, "%s %d\n", r.label, value)
}

// LogReporter reports through a zap logger at info level.
type LogReporter struct {
	log *zap.Logger
}

// NewLogReporter reports through l.
func NewLogReporter(l *zap.Logger) *LogReporter {
	return &LogReporter{log: l}
}

// Report implements Reporter.
func (r *LogReporter) Report(_ context.Context, value int32) {
	r.log.Info("number reported", zap.Int32("value", value))
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, value int32)

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, value int32) {
	f(ctx, value)
}
