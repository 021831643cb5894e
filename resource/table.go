package resource

import (
	"sync"

	"github.com/wippyai/sides/thing"
)

// Table maps handles to things crossing the boundary and owns their lifetime:
// removing a handle destroys its thing exactly once.
type Table struct {
	store     *store
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		store: newStore(),
	}
}

// Insert adds t and returns its handle, or 0 if t is nil or the table is closed.
func (t *Table) Insert(th thing.Thing) Handle {
	if th == nil {
		return 0
	}

	handle, err := t.store.create(th)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Thing:  th,
	})

	return handle
}

// Get retrieves a thing by handle.
func (t *Table) Get(handle Handle) (thing.Thing, bool) {
	return t.store.get(handle)
}

// Borrow returns the thing and records an outstanding borrow.
// A borrowed handle cannot be removed until every borrow is returned.
func (t *Table) Borrow(handle Handle) (thing.Thing, bool) {
	th, ok := t.store.borrow(handle)
	if !ok {
		return nil, false
	}
	t.notify(Event{Type: EventBorrowed, Handle: handle, Thing: th})
	return th, true
}

// ReturnBorrow releases one borrow taken by Borrow.
func (t *Table) ReturnBorrow(handle Handle) bool {
	th, _ := t.store.get(handle)
	if !t.store.returnBorrow(handle) {
		return false
	}
	t.notify(Event{Type: EventBorrowReturned, Handle: handle, Thing: th})
	return true
}

// Remove drops the handle and destroys its thing.
func (t *Table) Remove(handle Handle) (thing.Thing, error) {
	th, err := t.store.drop(handle)
	if err != nil {
		return nil, err
	}

	th.Destroy()

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Thing:  th,
	})

	return th, nil
}

// Take drops the handle without destroying its thing; ownership returns to the caller.
func (t *Table) Take(handle Handle) (thing.Thing, error) {
	th, err := t.store.drop(handle)
	if err != nil {
		return nil, err
	}
	t.notify(Event{Type: EventTaken, Handle: handle, Thing: th})
	return th, nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	return t.store.len()
}

// Each iterates over live handles until fn returns false.
func (t *Table) Each(fn func(Handle, thing.Thing) bool) {
	t.store.each(fn)
}

// Clear removes every handle without outstanding borrows.
func (t *Table) Clear() {
	// Collect handles first to avoid holding the lock during Remove
	var handles []Handle
	t.store.each(func(h Handle, _ thing.Thing) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_, _ = t.Remove(h)
	}
}

// Close destroys every remaining thing and stops accepting inserts.
// Each destroyed thing is reported as EventDropped.
// Outstanding borrows do not prevent destruction on Close.
func (t *Table) Close() error {
	for _, s := range t.store.close() {
		s.thing.Destroy()
		t.notify(Event{Type: EventDropped, Handle: s.handle, Thing: s.thing})
	}
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
