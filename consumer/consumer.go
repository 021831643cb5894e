package consumer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/thing"
)

const tracerName = "github.com/wippyai/sides/consumer"

// Source produces objects. *provider.Provider satisfies it.
type Source interface {
	Provide(ctx context.Context) (thing.Thing, error)
}

// Sink is the external collaborator that receives each object after dispatch.
// Its contract is only that it accepts a Thing.
type Sink interface {
	Consume(ctx context.Context, t thing.Thing) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, t thing.Thing) error

// Consume implements Sink.
func (f SinkFunc) Consume(ctx context.Context, t thing.Thing) error {
	return f(ctx, t)
}

// Recorder observes the outcome of each stage of Run.
type Recorder interface {
	ObserveProvide(err error)
	ObserveDispatch(value int32)
	ObserveHandoff(err error)
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithReporter replaces the default stdout reporter.
func WithReporter(r Reporter) Option {
	return func(c *Consumer) { c.reporter = r }
}

// WithRecorder installs a stage recorder, typically metrics.
func WithRecorder(r Recorder) Option {
	return func(c *Consumer) { c.recorder = r }
}

// Consumer obtains an object, dispatches its number capability, reports the
// result, and forwards the same object to the sink.
type Consumer struct {
	source   Source
	sink     Sink
	reporter Reporter
	recorder Recorder
}

// New creates a consumer reading from source and forwarding to sink.
func New(source Source, sink Sink, opts ...Option) *Consumer {
	c := &Consumer{
		source:   source,
		sink:     sink,
		reporter: NewWriterReporter(nil, ""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run performs one provide, dispatch, report, handoff cycle.
// Errors from the source are returned as is; a sink failure is wrapped with
// PhaseHandoff. Nothing is retried.
func (c *Consumer) Run(ctx context.Context) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "consumer.Run")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	t, err := c.source.Provide(ctx)
	c.observeProvide(err)
	if err != nil {
		return err
	}

	n, err := thing.Number(t)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.Int("sides.number", int(n)),
		attribute.String("sides.type", fmt.Sprintf("%T", t)),
	)
	if c.recorder != nil {
		c.recorder.ObserveDispatch(n)
	}
	c.reporter.Report(ctx, n)

	Logger().Debug("forwarding to sink",
		zap.Int32("number", n),
		zap.String("type", fmt.Sprintf("%T", t)),
		zap.String("trace_id", traceID(span)))

	if err := c.sink.Consume(ctx, t); err != nil {
		c.observeHandoff(err)
		return errors.Wrap(errors.PhaseHandoff, errors.KindRejected, err, "sink rejected object")
	}
	c.observeHandoff(nil)
	return nil
}

func (c *Consumer) observeProvide(err error) {
	if c.recorder != nil {
		c.recorder.ObserveProvide(err)
	}
}

func (c *Consumer) observeHandoff(err error) {
	if c.recorder != nil {
		c.recorder.ObserveHandoff(err)
	}
}

func traceID(span trace.Span) string {
	sc := span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
