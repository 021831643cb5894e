package thing

import (
	"errors"
	"testing"

	sidesErrors "github.com/wippyai/sides/errors"
)

func TestInstance_DispatchesThroughOwnVtable(t *testing.T) {
	var destroyed []any
	vt := &Vtable{
		Destroy: func(self *Instance) { destroyed = append(destroyed, self.Self) },
		Number:  func(self *Instance) int32 { return self.Self.(int32) * 2 },
	}

	a := New(vt, int32(3))
	b := New(vt, int32(21))

	if got := a.Number(); got != 6 {
		t.Errorf("a.Number() = %d, want 6", got)
	}
	if got := b.Number(); got != 42 {
		t.Errorf("b.Number() = %d, want 42", got)
	}

	b.Destroy()
	if len(destroyed) != 1 || destroyed[0] != int32(21) {
		t.Errorf("destroyed = %v, want [21]", destroyed)
	}
	if a.Vtable() != vt {
		t.Error("Vtable() should return the bound table")
	}
}

func TestValidate(t *testing.T) {
	full := &Vtable{
		Destroy: func(*Instance) {},
		Number:  func(*Instance) int32 { return 1 },
	}
	var nilInst *Instance

	tests := []struct {
		name    string
		thing   Thing
		wantErr bool
		slot    string
	}{
		{name: "const", thing: Const(7)},
		{name: "func", thing: Func(func() int32 { return 1 })},
		{name: "full instance", thing: New(full, nil)},
		{name: "nil thing", thing: nil, wantErr: true},
		{name: "nil instance", thing: nilInst, wantErr: true},
		{name: "nil vtable", thing: New(nil, nil), wantErr: true},
		{name: "nil func", thing: Func(nil), wantErr: true, slot: SlotNumber},
		{name: "tracked const", thing: Track(Const(3))},
		{name: "tracked nil", thing: Track(nil), wantErr: true},
		{name: "tracked nil func", thing: Track(Func(nil)), wantErr: true, slot: SlotNumber},
		{
			name:    "tracked missing number",
			thing:   Track(New(&Vtable{Destroy: full.Destroy}, nil)),
			wantErr: true,
			slot:    SlotNumber,
		},
		{
			name:    "missing destroy",
			thing:   New(&Vtable{Number: full.Number}, nil),
			wantErr: true,
			slot:    SlotDestroy,
		},
		{
			name:    "missing number",
			thing:   New(&Vtable{Destroy: full.Destroy}, nil),
			wantErr: true,
			slot:    SlotNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.thing)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, sidesErrors.ErrInvalidVtable) {
				t.Fatalf("Validate() = %v, want invalid vtable", err)
			}
			var se *sidesErrors.Error
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if se.Slot != tt.slot {
				t.Errorf("Slot = %q, want %q", se.Slot, tt.slot)
			}
		})
	}
}

func TestNumber_DoesNotDispatchInvalid(t *testing.T) {
	called := false
	inst := New(&Vtable{Number: func(*Instance) int32 { called = true; return 1 }}, nil)

	if _, err := Number(inst); err == nil {
		t.Fatal("expected error for missing destroy slot")
	}
	if called {
		t.Error("number must not be dispatched on an invalid vtable")
	}
}

func TestDestroy(t *testing.T) {
	tr := Track(Const(5))
	if err := Destroy(tr); err != nil {
		t.Fatal(err)
	}
	if tr.Destroys() != 1 {
		t.Errorf("Destroys() = %d, want 1", tr.Destroys())
	}
	if err := Destroy(nil); err == nil {
		t.Error("Destroy(nil) should fail")
	}
}

func TestTracked(t *testing.T) {
	tr := Track(Const(9))
	for i := 0; i < 3; i++ {
		n, err := Number(tr)
		if err != nil {
			t.Fatal(err)
		}
		if n != 9 {
			t.Errorf("Number() = %d, want 9", n)
		}
	}
	if tr.Numbers() != 3 {
		t.Errorf("Numbers() = %d, want 3", tr.Numbers())
	}
}
