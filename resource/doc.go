// Package resource provides handle tables for things crossing the boundary.
//
// A Thing handed to the other side is not passed as a pointer. It is stored
// in a Table and the other side receives an integer Handle that indexes it:
//
//	table := resource.NewTable()
//	h := table.Insert(t)
//
//	// Temporary access (handle remains valid)
//	t, ok := table.Borrow(h)
//	table.ReturnBorrow(h)
//
//	// Ownership ends: Destroy is dispatched exactly once
//	table.Remove(h)
//
// Handle 0 is never issued. Freed handles are reused.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	type logObserver struct{}
//
//	func (logObserver) OnResourceEvent(e resource.Event) {
//	    log.Printf("%s handle %d", e.Type, e.Handle)
//	}
//
//	table.Subscribe(logObserver{})
//
// # Memory Management
//
// Things are not garbage collected out of the table. Call Remove when the
// other side drops a handle, and Close to destroy whatever remains.
package resource
