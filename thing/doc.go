// Package thing defines the object exchanged between the two sides and its
// capability set {destroy, number}.
//
// Native Go implementations satisfy the Thing interface directly. Objects
// that arrive as a pointer plus a table of functions are represented by
// Instance, which binds a *Vtable to an opaque Self value:
//
//	vt := &thing.Vtable{
//		Destroy: func(self *thing.Instance) {},
//		Number:  func(self *thing.Instance) int32 { return self.Self.(int32) },
//	}
//	t := thing.New(vt, int32(7))
//
// Callers dispatch through the object they were given and never through a
// statically known implementation. Validate must succeed before the first
// capability call; Number and Destroy combine both steps.
package thing
