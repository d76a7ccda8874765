package marketplace

import (
	"sort"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// StaticRegistry holds the configured adapters keyed by marketplace code.
// Adapters are registered once at startup; lookups are read-only afterwards
// so no locking is needed.
type StaticRegistry struct {
	adapters map[marketplace.Code]marketplace.Adapter
}

// NewRegistry creates a registry from the given adapters. A later adapter
// with the same code replaces an earlier one.
func NewRegistry(adapters ...marketplace.Adapter) *StaticRegistry {
	r := &StaticRegistry{adapters: make(map[marketplace.Code]marketplace.Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Code()] = a
	}
	return r
}

// Get looks up the adapter for a marketplace code.
func (r *StaticRegistry) Get(code marketplace.Code) (marketplace.Adapter, error) {
	a, ok := r.adapters[code]
	if !ok {
		return nil, marketplace.ErrAdapterNotFound
	}
	return a, nil
}

// List returns all registered adapters in stable code order.
func (r *StaticRegistry) List() []marketplace.Adapter {
	out := make([]marketplace.Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })
	return out
}

var _ marketplace.Registry = (*StaticRegistry)(nil)
