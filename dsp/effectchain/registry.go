package effectchain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/audiofx/dsp/effects"
)

// ErrUnknownEffect is returned when a name does not match a registered effect.
var ErrUnknownEffect = errors.New("unknown effect type")

var errDuplicateEffect = errors.New("duplicate effect type")

// Registry maps effect names to their descriptors.
type Registry struct {
	descriptors map[string]effects.Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]effects.Descriptor)}
}

// Register adds a descriptor under its name.
func (r *Registry) Register(d effects.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, d.Name)
	}

	r.descriptors[d.Name] = d

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(d effects.Descriptor) {
	err := r.Register(d)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (effects.Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered effect names in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Build validates raw against the named effect's parameters and constructs
// an instance tuned for f.
func (r *Registry) Build(name string, raw map[string]float64, f effects.Format) (effects.Effect, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}

	return d.Build(raw, f)
}
