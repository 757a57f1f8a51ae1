package cascade

import (
	"errors"
	"fmt"
)

// DuplicateVariantError is returned when a variant name is registered twice in
// the same registry.
type DuplicateVariantError struct {
	Registry string
	Name     string
}

func (e *DuplicateVariantError) Error() string {
	return fmt.Sprintf("variant %q already registered in %q", e.Name, e.Registry)
}

// UnknownVariantError is returned when a lookup or a node binding references a
// variant that was never registered.
type UnknownVariantError struct {
	Registry string
	Name     string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q in %q", e.Name, e.Registry)
}

// InvalidTriggerError is returned when an event or operation references a node
// that is not mounted.
type InvalidTriggerError struct {
	NodeID string
	Kind   EventKind
}

func (e *InvalidTriggerError) Error() string {
	return fmt.Sprintf("%s: node %q is not mounted", e.Kind, e.NodeID)
}

var (
	// ErrRegistrySealed is returned by Register after the registry was sealed.
	ErrRegistrySealed = errors.New("registry is sealed")
	// ErrEmptyVariantName is returned by Register for an empty name.
	ErrEmptyVariantName = errors.New("empty variant name")
	// ErrDuplicateNode is returned by Mount when a node ID is already in use.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrNoRegistry is returned by Mount for a node with bindings but no
	// variant registry.
	ErrNoRegistry = errors.New("node has bindings but no variants")
)
