package thing

import (
	"fmt"

	"github.com/wippyai/sides/errors"
)

// Capability slot names as they appear in errors and generated bindings.
const (
	SlotDestroy = "destroy"
	SlotNumber  = "number"
)

// Thing is the object exchanged across the boundary.
type Thing interface {
	// Destroy releases whatever the implementing side holds for this object.
	Destroy()
	// Number returns the object's integer capability.
	Number() int32
}

// Vtable is an explicit dispatch table for objects assembled from loose functions.
type Vtable struct {
	Destroy func(self *Instance)
	Number  func(self *Instance) int32
}

// Instance binds a vtable to an opaque per-object value.
// Every capability call goes through the instance's own vtable.
type Instance struct {
	vtable *Vtable
	Self   any
}

// New returns an instance dispatching through vt.
func New(vt *Vtable, self any) *Instance {
	return &Instance{vtable: vt, Self: self}
}

// Vtable returns the table the instance dispatches through.
func (i *Instance) Vtable() *Vtable {
	return i.vtable
}

// Destroy implements Thing.
func (i *Instance) Destroy() {
	i.vtable.Destroy(i)
}

// Number implements Thing.
func (i *Instance) Number() int32 {
	return i.vtable.Number(i)
}

// Validate reports whether every capability of t can be invoked.
// A nil Thing, a nil Func, a Tracked wrapping nothing or an invalid Thing,
// a nil *Instance, or an instance with a nil vtable or slot yields an
// InvalidVtable error naming the first missing slot.
func Validate(t Thing) error {
	if t == nil {
		return errors.New(errors.PhaseDispatch, errors.KindInvalidVtable).
			Detail("nil object").
			Build()
	}
	typ := fmt.Sprintf("%T", t)
	switch v := t.(type) {
	case Func:
		if v == nil {
			return errors.InvalidVtable(typ, SlotNumber)
		}
		return nil
	case *Tracked:
		if v == nil || v.Thing == nil {
			return errors.New(errors.PhaseDispatch, errors.KindInvalidVtable).
				Type(typ).
				Detail("nothing tracked").
				Build()
		}
		return Validate(v.Thing)
	}
	inst, ok := t.(*Instance)
	if !ok {
		return nil
	}
	if inst == nil {
		return errors.New(errors.PhaseDispatch, errors.KindInvalidVtable).
			Type(typ).
			Detail("nil instance").
			Build()
	}
	if inst.vtable == nil {
		return errors.New(errors.PhaseDispatch, errors.KindInvalidVtable).
			Type(typ).
			Detail("nil vtable").
			Build()
	}
	if inst.vtable.Destroy == nil {
		return errors.InvalidVtable(typ, SlotDestroy)
	}
	if inst.vtable.Number == nil {
		return errors.InvalidVtable(typ, SlotNumber)
	}
	return nil
}

// Number validates t and dispatches its number capability.
func Number(t Thing) (int32, error) {
	if err := Validate(t); err != nil {
		return 0, err
	}
	return t.Number(), nil
}

// Destroy validates t and dispatches its destroy capability.
func Destroy(t Thing) error {
	if err := Validate(t); err != nil {
		return err
	}
	t.Destroy()
	return nil
}
