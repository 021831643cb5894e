package guest

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/resource"
	"github.com/wippyai/sides/thing"
)

const tracerName = "github.com/wippyai/sides/guest"

// Report is what the guest observed for one handle.
type Report struct {
	Handle resource.Handle
	Value  int32
}

// Option configures a Sink.
type Option func(*Sink)

// WithDestroy controls whether the guest ends the object's lifetime after
// reporting. When false the guest only borrows the object and the host takes
// it back, undestroyed, once consume returns. Default true.
func WithDestroy(destroy bool) Option {
	return func(s *Sink) { s.destroy = destroy }
}

// WithReportHandler installs a callback for every guest report.
func WithReportHandler(fn func(Report)) Option {
	return func(s *Sink) { s.onReport = fn }
}

// WithTrace logs every host call made by the guest at debug level.
func WithTrace(trace bool) Option {
	return func(s *Sink) { s.trace = trace }
}

// WithTable makes the sink publish handles in table instead of a private one.
func WithTable(table *resource.Table) Option {
	return func(s *Sink) { s.table = table }
}

// Sink is the other side of the handoff: a WebAssembly guest that receives
// objects as handles and reaches their capabilities through host imports.
type Sink struct {
	rt       wazero.Runtime
	mod      api.Module
	table    *resource.Table
	onReport func(Report)
	callErr  error
	last     Report
	mu       sync.Mutex
	hasLast  bool
	destroy  bool
	trace    bool
	closed   bool
}

// NewSink compiles the guest and links it against the host module.
func NewSink(ctx context.Context, opts ...Option) (*Sink, error) {
	s := &Sink{destroy: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == nil {
		s.table = resource.NewTable()
	}

	s.rt = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())

	_, err := s.rt.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().WithFunc(s.hostNumber).Export(HostThingNumber).
		NewFunctionBuilder().WithFunc(s.hostDestroy).Export(HostThingDestroy).
		NewFunctionBuilder().WithFunc(s.hostReport).Export(HostReport).
		Instantiate(ctx)
	if err != nil {
		_ = s.rt.Close(ctx)
		return nil, errors.Instantiation("host module "+HostModule, err)
	}

	s.mod, err = s.rt.InstantiateWithConfig(ctx, program(s.destroy),
		wazero.NewModuleConfig().WithName("other-side"))
	if err != nil {
		_ = s.rt.Close(ctx)
		return nil, errors.Instantiation("guest module", err)
	}

	if s.mod.ExportedFunction(ExportConsume) == nil {
		_ = s.rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseGuest, "export", ExportConsume)
	}

	Logger().Debug("guest ready", zap.Bool("destroy", s.destroy))
	return s, nil
}

// Consume hands t to the guest. The object is published under a fresh handle
// for the duration of the call; the guest dispatches number through it,
// reports the value, and destroys it unless WithDestroy(false) was given.
// If the guest traps, the handle is withdrawn and t is left undestroyed.
func (s *Sink) Consume(ctx context.Context, t thing.Thing) error {
	if err := thing.Validate(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "context done")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Closed(errors.PhaseGuest, "sink")
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "guest.Consume")
	defer span.End()

	h := s.table.Insert(t)
	if h == 0 {
		return errors.Closed(errors.PhaseGuest, "handle table")
	}
	span.SetAttributes(attribute.Int64("sides.handle", int64(h)))

	s.callErr = nil
	if _, err := s.mod.ExportedFunction(ExportConsume).Call(ctx, uint64(h)); err != nil {
		if _, ok := s.table.Get(h); ok {
			_, _ = s.table.Take(h)
		}
		cause := err
		if s.callErr != nil {
			cause = s.callErr
		}
		gerr := errors.New(errors.PhaseGuest, errors.KindTrap).
			Value(uint32(h)).
			Cause(cause).
			Detail("guest %s trapped", ExportConsume).
			Build()
		span.RecordError(gerr)
		span.SetStatus(codes.Error, gerr.Error())
		Logger().Warn("guest trapped", zap.Uint32("handle", uint32(h)), zap.Error(cause))
		return gerr
	}

	if !s.destroy {
		if _, err := s.table.Take(h); err != nil {
			return err
		}
	}
	return nil
}

// LastReport returns the most recent guest report.
func (s *Sink) LastReport() (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Table returns the handle table backing the sink.
func (s *Sink) Table() *resource.Table {
	return s.table
}

// Close destroys any objects still published and releases the runtime.
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	_ = s.table.Close()
	return s.rt.Close(ctx)
}

// Host functions run on the goroutine executing Consume, which holds s.mu.

func (s *Sink) hostNumber(_ context.Context, handle uint32) int32 {
	h := resource.Handle(handle)
	t, ok := s.table.Borrow(h)
	if !ok {
		s.abort(errors.NotFound(errors.PhaseGuest, "handle", handle))
	}
	defer s.table.ReturnBorrow(h)

	n := t.Number()
	if s.trace {
		Logger().Debug("guest called number", zap.Uint32("handle", handle), zap.Int32("value", n))
	}
	return n
}

func (s *Sink) hostDestroy(_ context.Context, handle uint32) {
	if _, err := s.table.Remove(resource.Handle(handle)); err != nil {
		s.abort(err)
	}
	if s.trace {
		Logger().Debug("guest called destroy", zap.Uint32("handle", handle))
	}
}

func (s *Sink) hostReport(_ context.Context, handle uint32, value int32) {
	r := Report{Handle: resource.Handle(handle), Value: value}
	s.last = r
	s.hasLast = true
	if s.trace {
		Logger().Debug("guest reported", zap.Uint32("handle", handle), zap.Int32("value", value))
	}
	if s.onReport != nil {
		s.onReport(r)
	}
}

// abort records err and unwinds the guest; wazero turns the panic into a
// Call error.
func (s *Sink) abort(err error) {
	s.callErr = err
	panic(err)
}
