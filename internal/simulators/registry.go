package simulators

import (
	"fmt"
	"sort"
	"sync"
)

// NotFoundError reports a profile name missing from the registry along
// with the set of valid names.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found, available profiles: %v", e.Name, e.Available)
}

type entry struct {
	ctor        Constructor
	description string
}

// Registry maps profile names to constructors. Registration is
// last-write-wins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

func (r *Registry) Register(name, description string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{ctor: ctor, description: description}
}

// Resolve returns the constructor registered under name, or a
// NotFoundError carrying the valid name set.
func (r *Registry) Resolve(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, &NotFoundError{Name: name, Available: r.listLocked()}
	}
	return e.ctor, nil
}

// Describe returns the registered description for name, empty if unknown.
func (r *Registry) Describe(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name].description
}

// List returns the registered profile names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry populated with the built-in
// profiles.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("weather", "Weather station data simulation profile", NewWeatherProfile)
	r.Register("agriculture", "Agricultural soil sensor data simulation profile", NewAgricultureProfile)
	r.Register("energy", "Energy meter data simulation profile", NewEnergyProfile)
	return r
}
