package consumer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	sidesErrors "github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/provider"
	"github.com/wippyai/sides/thing"
)

type recordingSink struct {
	received []thing.Thing
	err      error
}

func (s *recordingSink) Consume(_ context.Context, t thing.Thing) error {
	s.received = append(s.received, t)
	return s.err
}

type recordingRecorder struct {
	provides []error
	dispatch []int32
	handoffs []error
}

func (r *recordingRecorder) ObserveProvide(err error) { r.provides = append(r.provides, err) }
func (r *recordingRecorder) ObserveDispatch(v int32)  { r.dispatch = append(r.dispatch, v) }
func (r *recordingRecorder) ObserveHandoff(err error) { r.handoffs = append(r.handoffs, err) }

func collect(values *[]int32) Reporter {
	return ReporterFunc(func(_ context.Context, v int32) { *values = append(*values, v) })
}

func TestRun_ReportsAndForwardsSameObject(t *testing.T) {
	tr := thing.Track(thing.Const(7))
	p := provider.New("test")
	if err := p.Register(func() thing.Thing { return tr }); err != nil {
		t.Fatal(err)
	}

	var reported []int32
	sink := &recordingSink{}
	c := New(p, sink, WithReporter(collect(&reported)))

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if diff := cmp.Diff([]int32{7}, reported); diff != "" {
		t.Errorf("reported mismatch (-want +got):\n%s", diff)
	}
	if len(sink.received) != 1 {
		t.Fatalf("sink received %d objects, want 1", len(sink.received))
	}
	if sink.received[0] != thing.Thing(tr) {
		t.Error("sink received a different object")
	}
	if tr.Numbers() != 1 {
		t.Errorf("number dispatched %d times, want 1", tr.Numbers())
	}
	if tr.Destroys() != 0 {
		t.Error("consumer must not destroy")
	}
}

func TestRun_Unregistered(t *testing.T) {
	sink := &recordingSink{}
	var reported []int32
	c := New(provider.New("empty"), sink, WithReporter(collect(&reported)))

	err := c.Run(context.Background())
	if !errors.Is(err, sidesErrors.ErrProviderNotRegistered) {
		t.Fatalf("Run = %v, want not registered", err)
	}
	if len(reported) != 0 || len(sink.received) != 0 {
		t.Error("nothing should be reported or forwarded")
	}
}

func TestRun_InvalidVtable(t *testing.T) {
	src := sourceFunc(func(context.Context) (thing.Thing, error) {
		return thing.New(&thing.Vtable{Destroy: func(*thing.Instance) {}}, nil), nil
	})
	sink := &recordingSink{}
	c := New(src, sink, WithReporter(ReporterFunc(func(context.Context, int32) {
		t.Error("report must not happen")
	})))

	if err := c.Run(context.Background()); !errors.Is(err, sidesErrors.ErrInvalidVtable) {
		t.Fatalf("Run = %v, want invalid vtable", err)
	}
	if len(sink.received) != 0 {
		t.Error("invalid object must not be forwarded")
	}
}

func TestRun_InvalidAdapters(t *testing.T) {
	tests := []struct {
		name string
		ctor provider.Constructor
	}{
		{"nil func", func() thing.Thing { return thing.Func(nil) }},
		{"tracked nil", func() thing.Thing { return thing.Track(nil) }},
		{"tracked nil func", func() thing.Thing { return thing.Track(thing.Func(nil)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := provider.New("test")
			if err := p.Register(tt.ctor); err != nil {
				t.Fatal(err)
			}
			sink := &recordingSink{}
			var reported []int32
			c := New(p, sink, WithReporter(collect(&reported)))

			if err := c.Run(context.Background()); !errors.Is(err, sidesErrors.ErrInvalidVtable) {
				t.Fatalf("Run = %v, want invalid vtable", err)
			}
			if len(reported) != 0 || len(sink.received) != 0 {
				t.Error("invalid object must not be reported or forwarded")
			}
		})
	}
}

func TestRun_Polymorphic(t *testing.T) {
	vt := &thing.Vtable{
		Destroy: func(*thing.Instance) {},
		Number:  func(self *thing.Instance) int32 { return int32(len(self.Self.(string))) },
	}
	tests := []struct {
		name string
		ctor provider.Constructor
		want int32
	}{
		{"const", func() thing.Thing { return thing.Const(7) }, 7},
		{"func", func() thing.Thing { return thing.Func(func() int32 { return -1 }) }, -1},
		{"instance", func() thing.Thing { return thing.New(vt, "hello") }, 5},
	}

	p := provider.New("test")
	var reported []int32
	c := New(p, &recordingSink{}, WithReporter(collect(&reported)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Register(tt.ctor); err != nil {
				t.Fatal(err)
			}
			if err := c.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if got := reported[len(reported)-1]; got != tt.want {
				t.Errorf("reported %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRun_SinkError(t *testing.T) {
	p := provider.New("test")
	_ = p.Register(func() thing.Thing { return thing.Const(1) })
	cause := errors.New("other side unavailable")
	rec := &recordingRecorder{}
	c := New(p, &recordingSink{err: cause},
		WithReporter(ReporterFunc(func(context.Context, int32) {})),
		WithRecorder(rec))

	err := c.Run(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("Run = %v, want cause", err)
	}
	var se *sidesErrors.Error
	if !errors.As(err, &se) || se.Phase != sidesErrors.PhaseHandoff {
		t.Fatalf("Run = %v, want handoff phase", err)
	}
	if len(rec.handoffs) != 1 || !errors.Is(rec.handoffs[0], cause) {
		t.Errorf("handoffs = %v", rec.handoffs)
	}
}

func TestRun_Recorder(t *testing.T) {
	p := provider.New("test")
	_ = p.Register(func() thing.Thing { return thing.Const(4) })
	rec := &recordingRecorder{}
	c := New(p, &recordingSink{},
		WithReporter(ReporterFunc(func(context.Context, int32) {})),
		WithRecorder(rec))

	for i := 0; i < 2; i++ {
		if err := c.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]int32{4, 4}, rec.dispatch); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if len(rec.provides) != 2 || rec.provides[0] != nil {
		t.Errorf("provides = %v", rec.provides)
	}
	if len(rec.handoffs) != 2 || rec.handoffs[1] != nil {
		t.Errorf("handoffs = %v", rec.handoffs)
	}
}

func TestRun_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	p := provider.New("test")
	c := New(p, &recordingSink{}, WithReporter(ReporterFunc(func(context.Context, int32) {})))
	_ = c.Run(context.Background())

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "consumer.Run" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if len(spans[0].Events()) == 0 {
		t.Error("failed run should record an error event")
	}
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	NewWriterReporter(&buf, "").Report(context.Background(), 42)
	NewWriterReporter(&buf, "C side").Report(context.Background(), -1)

	want := "number is 42\nC side -1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewLogReporter(zap.New(core))

	r.Report(context.Background(), 11)

	entries := logs.FilterMessage("number reported").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["value"]; got != int32(11) {
		t.Errorf("value = %v (%T), want 11", got, got)
	}
}

type sourceFunc func(context.Context) (thing.Thing, error)

func (f sourceFunc) Provide(ctx context.Context) (thing.Thing, error) { return f(ctx) }
