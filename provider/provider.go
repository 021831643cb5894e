package provider

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/thing"
)

// Constructor builds a new Thing. It takes no arguments.
type Constructor func() thing.Thing

// Provider holds the registration slot for the current constructor.
// The zero value is an empty, unsealed provider ready for use.
type Provider struct {
	ctor   Constructor
	name   string
	mu     sync.RWMutex
	sealed bool
}

// New creates an empty provider. The name only appears in logs.
func New(name string) *Provider {
	return &Provider{name: name}
}

// Default is the process-wide registration slot used by the package-level
// Register and Provide functions.
var Default = New("default")

// Register stores c in the slot, replacing any prior constructor.
// It fails on a nil constructor and after Seal.
func (p *Provider) Register(c Constructor) error {
	if c == nil {
		return errors.InvalidInput(errors.PhaseRegister, "nil constructor")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sealed {
		return errors.New(errors.PhaseRegister, errors.KindRegistration).
			Detail("provider %q is sealed", p.name).
			Build()
	}

	replaced := p.ctor != nil
	p.ctor = c
	Logger().Debug("constructor registered",
		zap.String("provider", p.name),
		zap.Bool("replaced", replaced))
	return nil
}

// Seal makes the current registration permanent. Register fails afterwards.
func (p *Provider) Seal() {
	p.mu.Lock()
	p.sealed = true
	p.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (p *Provider) Sealed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sealed
}

// Registered reports whether a constructor is present.
func (p *Provider) Registered() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctor != nil
}

// Provide invokes the registered constructor and returns its result.
// No capability of the returned object is dispatched here; the object is
// only validated so callers never receive a Thing with a missing slot.
func (p *Provider) Provide(ctx context.Context) (thing.Thing, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.PhaseProvide, errors.KindInvalidInput, err, "context done")
	}

	p.mu.RLock()
	ctor := p.ctor
	p.mu.RUnlock()

	if ctor == nil {
		return nil, errors.NotRegistered()
	}

	t := ctor()
	if err := thing.Validate(t); err != nil {
		Logger().Warn("constructor returned invalid object",
			zap.String("provider", p.name),
			zap.String("type", fmt.Sprintf("%T", t)),
			zap.Error(err))
		return nil, err
	}
	return t, nil
}

// Register stores c in the Default provider.
func Register(c Constructor) error {
	return Default.Register(c)
}

// Provide builds a Thing from the Default provider.
func Provide(ctx context.Context) (thing.Thing, error) {
	return Default.Provide(ctx)
}
