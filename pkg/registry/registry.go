// Package registry declares the fixed set of invocable backend operations.
// The registry is populated once at startup and read-only afterwards; it is
// used for introspection (GET /capabilities, the MCP tool listing) and for
// validating that every routing rule references a real function.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/couchgm/couchgm/pkg/api"
)

// Registry holds the immutable set of function specs, keyed by name.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]api.FunctionSpec
	order []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{specs: make(map[string]api.FunctionSpec)}
}

// Register adds a function spec. Names must be unique; a duplicate name is
// a configuration defect and returns an error.
func (r *Registry) Register(spec api.FunctionSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("registry: function spec has empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.specs[spec.Name]; ok {
		return fmt.Errorf("registry: duplicate function name %q", spec.Name)
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// Lookup returns the spec for the named function.
func (r *Registry) Lookup(name string) (api.FunctionSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	return spec, ok
}

// Has reports whether the named function is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[name]
	return ok
}

// Specs returns all registered specs in registration order.
func (r *Registry) Specs() []api.FunctionSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]api.FunctionSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Names returns all registered function names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.specs))
	for name := range r.specs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
