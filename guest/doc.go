// Package guest implements the other side of the handoff as a WebAssembly
// guest running on wazero.
//
// The guest never sees a Go pointer. NewSink links it against a host module
// named "sides" that exposes each capability as a function over handles:
//
//	sides.thing_number(handle i32) -> i32
//	sides.thing_destroy(handle i32)
//	sides.report(handle i32, value i32)
//
// and the guest exports consume(handle i32), which asks for the number,
// reports it, then destroys the object. Handles index a resource.Table, so
// every call the guest makes is dispatched through the object's own
// capabilities:
//
//	sink, err := guest.NewSink(ctx)
//	if err != nil {
//	    return err
//	}
//	defer sink.Close(ctx)
//
//	if err := sink.Consume(ctx, t); err != nil {
//	    return err
//	}
//	r, _ := sink.LastReport()
//
// The guest binary is assembled at startup by the internal module encoder.
package guest
