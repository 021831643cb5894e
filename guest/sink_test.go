package guest

import (
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	sidesErrors "github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/resource"
	"github.com/wippyai/sides/thing"
)

func newTestSink(t *testing.T, opts ...Option) *Sink {
	t.Helper()
	ctx := context.Background()
	s, err := NewSink(ctx, opts...)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestProgram_Shape(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	for _, destroy := range []bool{true, false} {
		compiled, err := r.CompileModule(ctx, program(destroy))
		if err != nil {
			t.Fatalf("CompileModule(destroy=%v): %v", destroy, err)
		}

		imports := compiled.ImportedFunctions()
		if len(imports) != 3 {
			t.Fatalf("got %d imports, want 3", len(imports))
		}
		wantNames := []string{HostThingNumber, HostThingDestroy, HostReport}
		for i, def := range imports {
			mod, name, ok := def.Import()
			if !ok || mod != HostModule || name != wantNames[i] {
				t.Errorf("import %d = %s.%s, want %s.%s", i, mod, name, HostModule, wantNames[i])
			}
		}

		def, ok := compiled.ExportedFunctions()[ExportConsume]
		if !ok {
			t.Fatalf("export %q missing", ExportConsume)
		}
		if p := def.ParamTypes(); len(p) != 1 || p[0] != api.ValueTypeI32 {
			t.Errorf("consume params = %v, want [i32]", p)
		}
		if len(def.ResultTypes()) != 0 {
			t.Errorf("consume results = %v, want none", def.ResultTypes())
		}
	}
}

func TestSink_Consume(t *testing.T) {
	var reports []Report
	s := newTestSink(t, WithReportHandler(func(r Report) { reports = append(reports, r) }))
	tr := thing.Track(thing.Const(7))

	if err := s.Consume(context.Background(), tr); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	r, ok := s.LastReport()
	if !ok {
		t.Fatal("no report")
	}
	if r.Value != 7 {
		t.Errorf("reported %d, want 7", r.Value)
	}
	if r.Handle != 1 {
		t.Errorf("reported handle %d, want 1", r.Handle)
	}
	if len(reports) != 1 || reports[0] != r {
		t.Errorf("handler saw %v, want [%v]", reports, r)
	}
	if tr.Numbers() != 1 {
		t.Errorf("number dispatched %d times, want 1", tr.Numbers())
	}
	if tr.Destroys() != 1 {
		t.Errorf("destroy dispatched %d times, want 1", tr.Destroys())
	}
	if s.Table().Len() != 0 {
		t.Errorf("table holds %d handles after consume", s.Table().Len())
	}
}

func TestSink_DispatchesThroughVtable(t *testing.T) {
	s := newTestSink(t)
	vt := &thing.Vtable{
		Destroy: func(*thing.Instance) {},
		Number:  func(self *thing.Instance) int32 { return self.Self.(int32) + 100 },
	}

	for _, n := range []int32{1, 2, 3} {
		if err := s.Consume(context.Background(), thing.New(vt, n)); err != nil {
			t.Fatal(err)
		}
		r, _ := s.LastReport()
		if r.Value != n+100 {
			t.Errorf("reported %d, want %d", r.Value, n+100)
		}
		// Handles are recycled once the guest destroys the object.
		if r.Handle != 1 {
			t.Errorf("handle = %d, want 1", r.Handle)
		}
	}
}

func TestSink_BorrowOnly(t *testing.T) {
	s := newTestSink(t, WithDestroy(false))
	tr := thing.Track(thing.Const(3))

	if err := s.Consume(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	if tr.Destroys() != 0 {
		t.Error("guest without destroy must not end the lifetime")
	}
	if s.Table().Len() != 0 {
		t.Error("handle should be withdrawn after consume")
	}
	if r, _ := s.LastReport(); r.Value != 3 {
		t.Errorf("reported %d, want 3", r.Value)
	}
}

func TestSink_Trap(t *testing.T) {
	s := newTestSink(t)
	tr := thing.Track(thing.Func(func() int32 { panic("boom") }))

	err := s.Consume(context.Background(), tr)
	if !errors.Is(err, &sidesErrors.Error{Phase: sidesErrors.PhaseGuest, Kind: sidesErrors.KindTrap}) {
		t.Fatalf("Consume = %v, want guest trap", err)
	}
	if tr.Destroys() != 0 {
		t.Error("trapped handoff must not destroy")
	}
	if s.Table().Len() != 0 {
		t.Error("handle should be withdrawn after trap")
	}
	if _, ok := s.LastReport(); ok {
		t.Error("no report expected after trap")
	}

	// The sink stays usable.
	if err := s.Consume(context.Background(), thing.Const(1)); err != nil {
		t.Fatalf("Consume after trap: %v", err)
	}
}

func TestSink_InvalidThing(t *testing.T) {
	s := newTestSink(t)
	err := s.Consume(context.Background(), thing.New(&thing.Vtable{}, nil))
	if !errors.Is(err, sidesErrors.ErrInvalidVtable) {
		t.Fatalf("Consume = %v, want invalid vtable", err)
	}
}

func TestSink_SharedTable(t *testing.T) {
	table := resource.NewTable()
	obs := &countingObserver{}
	table.Subscribe(obs)
	s := newTestSink(t, WithTable(table))

	if err := s.Consume(context.Background(), thing.Const(9)); err != nil {
		t.Fatal(err)
	}
	if s.Table() != table {
		t.Fatal("Table() should return the shared table")
	}
	if obs.counts[resource.EventCreated] != 1 || obs.counts[resource.EventDropped] != 1 {
		t.Errorf("events = %v", obs.counts)
	}
	if obs.counts[resource.EventBorrowed] != 1 || obs.counts[resource.EventBorrowReturned] != 1 {
		t.Errorf("borrow events = %v", obs.counts)
	}
}

func TestSink_Closed(t *testing.T) {
	ctx := context.Background()
	s, err := NewSink(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(ctx); err != nil {
		t.Errorf("second Close = %v", err)
	}

	err = s.Consume(ctx, thing.Const(1))
	var se *sidesErrors.Error
	if !errors.As(err, &se) || se.Kind != sidesErrors.KindClosed {
		t.Fatalf("Consume after Close = %v, want closed", err)
	}
}

func TestSink_CanceledContext(t *testing.T) {
	s := newTestSink(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := thing.Track(thing.Const(1))
	if err := s.Consume(ctx, tr); !errors.Is(err, context.Canceled) {
		t.Fatalf("Consume = %v, want context.Canceled", err)
	}
	if tr.Numbers() != 0 {
		t.Error("no dispatch expected on canceled context")
	}
}

type countingObserver struct {
	counts map[resource.EventType]int
}

func (o *countingObserver) OnResourceEvent(e resource.Event) {
	if o.counts == nil {
		o.counts = make(map[resource.EventType]int)
	}
	o.counts[e.Type]++
}
