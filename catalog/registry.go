package catalog

import "sync/atomic"

// Registry holds the single active GraphSchema, atomically swapped on hot
// reload. A GraphSchema is immutable once built; reload builds a fresh
// instance and swaps the pointer rather than mutating the one in flight, so
// queries already holding a reference to the old schema keep a consistent
// view for the duration of their planning pass.
type Registry struct {
	active     atomic.Pointer[GraphSchema]
	generation atomic.Uint64
}

// NewRegistry creates a Registry with no active schema.
func NewRegistry() *Registry {
	return &Registry{}
}

// Active returns the current schema and its generation number. Returns nil,
// 0 if no schema has been set yet.
func (r *Registry) Active() (*GraphSchema, uint64) {
	return r.active.Load(), r.generation.Load()
}

// Set installs schema as the active one, bumping the generation counter.
// Callers that cache plans keyed by generation (see querycache) should
// invalidate entries below the returned generation.
//
// Set panics if schema is nil or not yet sealed: an unsealed schema is still
// under construction and must not be published for concurrent reads.
func (r *Registry) Set(schema *GraphSchema) uint64 {
	if schema == nil {
		panic("catalog: Registry.Set: nil schema")
	}
	if !schema.IsSealed() {
		panic("catalog: Registry.Set: schema must be sealed before publishing")
	}
	gen := r.generation.Add(1)
	r.active.Store(schema)
	return gen
}
