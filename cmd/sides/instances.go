package main

import (
	"sync"

	"github.com/wippyai/sides/thing"
)

// instances is a registry of objects built by the counting constructor.
// Each object's Self is its index; number reports how many objects have
// been created so far and destroy frees the slot.
type instances struct {
	mu      sync.Mutex
	live    map[int]struct{}
	created int
	vtable  thing.Vtable
}

func newInstances() *instances {
	in := &instances{live: make(map[int]struct{})}
	in.vtable = thing.Vtable{
		Destroy: in.destroy,
		Number:  in.number,
	}
	return in
}

// New is a provider.Constructor.
func (in *instances) New() thing.Thing {
	in.mu.Lock()
	defer in.mu.Unlock()

	idx := in.created
	in.created++
	in.live[idx] = struct{}{}
	return thing.New(&in.vtable, idx)
}

// Live returns the number of objects not yet destroyed.
func (in *instances) Live() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.live)
}

func (in *instances) number(_ *thing.Instance) int32 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return int32(in.created)
}

func (in *instances) destroy(i *thing.Instance) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.live, i.Self.(int))
}
