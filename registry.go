package cascade

import (
	"fmt"
	"sort"
)

// Variant is a named target state: the properties to animate to, plus an
// optional transition that overrides the registry defaults.
type Variant struct {
	Props      Props
	Transition Transition
}

// Registry stores named variants. A registry is shared by every node that
// uses the same set of variant names; the orchestrator seals it on mount, after
// which it is read-only and safe for concurrent reads.
type Registry struct {
	name     string
	variants map[string]Variant
	defaults Transition
	sealed   bool
}

// NewRegistry creates an empty registry. The name only appears in errors and
// logs.
func NewRegistry(name string) *Registry {
	return &Registry{name: name, variants: make(map[string]Variant)}
}

// Name returns the registry name.
func (r *Registry) Name() string {
	return r.name
}

// Register adds a variant under name.
func (r *Registry) Register(name string, v Variant) error {
	if r.sealed {
		return fmt.Errorf("register %q: %w", name, ErrRegistrySealed)
	}
	if name == "" {
		return ErrEmptyVariantName
	}
	if _, ok := r.variants[name]; ok {
		return &DuplicateVariantError{Registry: r.name, Name: name}
	}
	if err := v.Transition.Validate(); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	r.variants[name] = v
	return nil
}

// MustRegister is like Register but panics on error. Intended for package-level
// variant tables.
func (r *Registry) MustRegister(name string, v Variant) *Registry {
	if err := r.Register(name, v); err != nil {
		panic("cascade: " + err.Error())
	}
	return r
}

// Resolve returns the variant registered under name.
func (r *Registry) Resolve(name string) (Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return Variant{}, &UnknownVariantError{Registry: r.name, Name: name}
	}
	return v, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.variants[name]
	return ok
}

// Names returns the registered variant names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDefaults sets the transition used for fields a variant leaves unset.
func (r *Registry) SetDefaults(t Transition) error {
	if r.sealed {
		return fmt.Errorf("set defaults: %w", ErrRegistrySealed)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("set defaults: %w", err)
	}
	r.defaults = t
	return nil
}

// Defaults returns the registry default transition.
func (r *Registry) Defaults() Transition {
	return r.defaults
}

// Seal makes the registry read-only. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}
