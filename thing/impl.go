package thing

import "sync/atomic"

// Func adapts a plain function to Thing. Destroy is a no-op.
type Func func() int32

// Destroy implements Thing.
func (f Func) Destroy() {}

// Number implements Thing.
func (f Func) Number() int32 { return f() }

// Const is a Thing whose number capability always returns the same value.
type Const int32

// Destroy implements Thing.
func (c Const) Destroy() {}

// Number implements Thing.
func (c Const) Number() int32 { return int32(c) }

// Tracked wraps a Thing and counts capability calls and destroys.
// It is safe for concurrent use.
type Tracked struct {
	Thing
	numbers   atomic.Int64
	destroyed atomic.Int64
}

// Track wraps t.
func Track(t Thing) *Tracked {
	return &Tracked{Thing: t}
}

// Number implements Thing.
func (t *Tracked) Number() int32 {
	t.numbers.Add(1)
	return t.Thing.Number()
}

// Destroy implements Thing.
func (t *Tracked) Destroy() {
	t.destroyed.Add(1)
	t.Thing.Destroy()
}

// Numbers returns how many times Number was called.
func (t *Tracked) Numbers() int64 { return t.numbers.Load() }

// Destroys returns how many times Destroy was called.
func (t *Tracked) Destroys() int64 { return t.destroyed.Load() }
