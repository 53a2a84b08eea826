package entity

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

// EntryState is the registration state of a class tag within a family.
type EntryState uint8

const (
	// Unknown tags are absent from the registry.
	Unknown EntryState = iota
	// Declared tags are recognized but have no builder yet.
	Declared
	// Implemented tags have a builder.
	Implemented
)

func (s EntryState) String() string {
	switch s {
	case Declared:
		return "declared"
	case Implemented:
		return "implemented"
	default:
		return "unknown"
	}
}

// Builder maps a decoded mapping to one concrete entity.
type Builder[T any] func(c *Context, m *sval.Mapping) (T, error)

type entry[T any] struct {
	state EntryState
	build Builder[T]
}

// Registry maps class tags of one entity family to builders.
type Registry[T any] struct {
	family  string
	entries map[string]entry[T]
}

// NewRegistry returns an empty registry for family, which names the family in
// dispatch errors ("effect", "unit", ...).
func NewRegistry[T any](family string) *Registry[T] {
	return &Registry[T]{family: family, entries: make(map[string]entry[T])}
}

// Family returns the family name used in error messages.
func (r *Registry[T]) Family() string { return r.family }

// Register binds class to b, replacing any earlier registration or declaration.
//
// Precondition: b must not be nil.
func (r *Registry[T]) Register(class string, b Builder[T]) {
	if b == nil {
		panic(fmt.Sprintf("entity: nil builder registered for %s %q", r.family, class))
	}
	r.entries[class] = entry[T]{state: Implemented, build: b}
}

// Declare marks class as known without a builder. Dispatching it fails with
// ErrInvalidConfig rather than ErrNotFound.
func (r *Registry[T]) Declare(class string) {
	r.entries[class] = entry[T]{state: Declared}
}

// Lookup returns the state of class and its builder when implemented.
func (r *Registry[T]) Lookup(class string) (EntryState, Builder[T]) {
	e, ok := r.entries[class]
	if !ok {
		return Unknown, nil
	}
	return e.state, e.build
}

// Tags returns every registered or declared class tag, sorted.
func (r *Registry[T]) Tags() []string {
	out := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Build dispatches m on its class tag.
//
// Postcondition: an unknown tag yields a *DispatchError wrapping ErrNotFound; a
// declared tag yields one wrapping ErrInvalidConfig; otherwise the builder's
// result is returned, with builder errors wrapped in the family and class.
func (r *Registry[T]) Build(c *Context, m *sval.Mapping) (T, error) {
	var zero T
	class := m.Class()
	state, build := r.Lookup(class)
	switch state {
	case Unknown:
		return zero, &DispatchError{Family: r.family, Class: class, Reason: ErrNotFound}
	case Declared:
		return zero, &DispatchError{Family: r.family, Class: class, Reason: ErrInvalidConfig}
	}
	v, err := build(c, m)
	if err != nil {
		return zero, fmt.Errorf("building %s %s: %w", r.family, class, err)
	}
	return v, nil
}
