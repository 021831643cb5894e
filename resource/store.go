package resource

import (
	"sync"

	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/thing"
)

// store is an in-memory slot array with borrow tracking and handle reuse.
type store struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	thing       thing.Thing
	borrowCount uint32
	valid       bool
}

type slot struct {
	handle Handle
	thing  thing.Thing
}

func newStore() *store {
	return &store{
		entries:  make([]entry, 0, 16),
		freeList: make([]Handle, 0, 4),
	}
}

func (s *store) create(t thing.Thing) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errors.Closed(errors.PhaseResource, "table")
	}

	e := entry{thing: t, valid: true}

	if len(s.freeList) > 0 {
		handle := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[handle-1] = e
		return handle, nil
	}

	s.entries = append(s.entries, e)
	return Handle(len(s.entries)), nil
}

// lookup returns the live entry for handle. Callers must hold mu.
func (s *store) lookup(handle Handle) *entry {
	if handle == 0 || int(handle-1) >= len(s.entries) {
		return nil
	}
	e := &s.entries[handle-1]
	if !e.valid {
		return nil
	}
	return e
}

func (s *store) get(handle Handle) (thing.Thing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.thing, true
}

func (s *store) drop(handle Handle) (thing.Thing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(handle)
	if e == nil {
		return nil, errors.NotFound(errors.PhaseResource, "handle", uint32(handle))
	}
	if e.borrowCount > 0 {
		return nil, errors.New(errors.PhaseResource, errors.KindOutstandingBorrow).
			Value(uint32(handle)).
			Detail("handle %d has %d outstanding borrows", handle, e.borrowCount).
			Build()
	}

	t := e.thing
	*e = entry{}
	s.freeList = append(s.freeList, handle)
	return t, nil
}

func (s *store) borrow(handle Handle) (thing.Thing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(handle)
	if e == nil {
		return nil, false
	}
	e.borrowCount++
	return e.thing, true
}

func (s *store) returnBorrow(handle Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(handle)
	if e == nil || e.borrowCount == 0 {
		return false
	}
	e.borrowCount--
	return true
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries) - len(s.freeList)
}

func (s *store) each(fn func(Handle, thing.Thing) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.valid {
			if !fn(Handle(i+1), e.thing) {
				break
			}
		}
	}
}

// close marks the store closed and returns every live handle with its
// thing in handle order, emptying the store.
func (s *store) close() []slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var live []slot
	for i, e := range s.entries {
		if e.valid {
			live = append(live, slot{handle: Handle(i + 1), thing: e.thing})
		}
	}
	s.entries = nil
	s.freeList = nil
	return live
}
