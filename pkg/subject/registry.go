package subject

import (
	"fmt"
	"sort"
	"sync"
)

// Registration pairs an implementation's identity with the
// factory that creates its subjects.
type Registration struct {
	Info    Info
	Factory Factory
}

// Registry defines the interface for managing the implementations
// a conformance binary can drive.
type Registry interface {
	// Register adds an implementation under its Info.Name.
	Register(info Info, factory Factory) error

	// Lookup retrieves an implementation by name.
	Lookup(name string) (Registration, error)

	// List returns all registrations sorted by name.
	List() []Registration

	// Names returns all registered names sorted.
	Names() []string

	// Clear removes all registrations.
	Clear()

	// Count returns the number of registrations.
	Count() int
}

// DefaultRegistry is the standard Registry implementation. It is
// safe for concurrent use.
type DefaultRegistry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		entries: make(map[string]Registration),
	}
}

// Default is the package-level default registry instance.
var Default = NewRegistry()

// Register adds an implementation to the registry. Returns an
// error when the name is empty, the factory is nil, or the name
// is already registered.
func (r *DefaultRegistry) Register(
	info Info,
	factory Factory,
) error {
	if info.Name == "" {
		return fmt.Errorf("implementation name is required")
	}
	if factory == nil {
		return fmt.Errorf(
			"implementation %s has no factory", info.Name,
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[info.Name]; exists {
		return fmt.Errorf(
			"implementation already registered: %s", info.Name,
		)
	}

	r.entries[info.Name] = Registration{
		Info:    info,
		Factory: factory,
	}
	return nil
}

// Lookup retrieves an implementation by name.
func (r *DefaultRegistry) Lookup(
	name string,
) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.entries[name]
	if !exists {
		return Registration{}, fmt.Errorf(
			"implementation not found: %s", name,
		)
	}
	return reg, nil
}

// List returns all registrations sorted by name.
func (r *DefaultRegistry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, reg)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Info.Name < out[j].Info.Name
	})
	return out
}

// Names returns all registered names sorted.
func (r *DefaultRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}

	sort.Strings(out)
	return out
}

// Clear removes all registrations.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]Registration)
}

// Count returns the number of registrations.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
