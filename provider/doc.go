// Package provider holds the registration slot for the Thing constructor.
//
// One side registers a zero-argument constructor; consumers call Provide to
// obtain a fresh object built by whatever constructor is current:
//
//	p := provider.New("host")
//	p.Register(func() thing.Thing { return thing.Const(7) })
//	p.Seal() // optional: freeze the slot for set-once, read-many use
//
//	t, err := p.Provide(ctx)
//
// Provide before any Register fails with errors.ErrProviderNotRegistered.
// The slot is guarded by a RWMutex, so registration may race with Provide
// without corrupting state; the last completed Register wins.
//
// Default and the package-level Register/Provide functions model a single
// process-wide slot. Prefer passing a *Provider explicitly.
package provider
