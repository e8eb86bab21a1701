package catalog

import (
	"iter"
	"slices"

	"github.com/genezhang/clickgraph/location"
)

// SourceRegistry gives read access to the raw text of loaded schema
// documents, so diagnostics can render a line/column excerpt alongside a
// location.Span. catalog/load populates one entry per YAML document it reads;
// positions come directly from goccy/go-yaml's AST nodes, so unlike an
// ANTLR-fed registry there is no separate rune-to-byte conversion step.
type SourceRegistry interface {
	// ContentBySource returns the raw document bytes for id.
	ContentBySource(id location.SourceID) ([]byte, bool)

	// Content returns the raw document bytes for span's source.
	Content(span location.Span) ([]byte, bool)

	// Keys returns all registered source IDs, sorted by SourceID.String().
	Keys() []location.SourceID

	// Has reports whether id is registered.
	Has(id location.SourceID) bool

	// Len returns the number of registered sources.
	Len() int
}

// Sources is a read-only view over a SourceRegistry, used by diagnostic
// rendering so it doesn't need to depend on the registry's mutable
// implementation directly.
type Sources struct {
	registry SourceRegistry
}

// NewSources wraps registry. Returns nil if registry is nil.
func NewSources(registry SourceRegistry) *Sources {
	if registry == nil {
		return nil
	}
	return &Sources{registry: registry}
}

// ContentBySource returns the raw document bytes for id.
func (s *Sources) ContentBySource(id location.SourceID) ([]byte, bool) {
	if s == nil || s.registry == nil {
		return nil, false
	}
	return s.registry.ContentBySource(id)
}

// Content returns the raw document bytes for span's source.
// Implements diag.SourceProvider.
func (s *Sources) Content(span location.Span) ([]byte, bool) {
	if s == nil || s.registry == nil {
		return nil, false
	}
	return s.registry.Content(span)
}

// SourceIDs returns every registered source ID, sorted.
func (s *Sources) SourceIDs() []location.SourceID {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.Keys()
}

// SourceIDsIter iterates registered source IDs in the same order as SourceIDs.
func (s *Sources) SourceIDsIter() iter.Seq[location.SourceID] {
	return func(yield func(location.SourceID) bool) {
		if s == nil || s.registry == nil {
			return
		}
		for _, id := range s.registry.Keys() {
			if !yield(id) {
				return
			}
		}
	}
}

// Has reports whether id is registered.
func (s *Sources) Has(id location.SourceID) bool {
	if s == nil || s.registry == nil {
		return false
	}
	return s.registry.Has(id)
}

// Len returns the number of registered sources.
func (s *Sources) Len() int {
	if s == nil || s.registry == nil {
		return 0
	}
	return s.registry.Len()
}

// memorySourceRegistry is the in-process SourceRegistry catalog/load
// populates as it reads each YAML document.
type memorySourceRegistry struct {
	content map[location.SourceID][]byte
}

// NewMemorySourceRegistry creates an empty, mutable SourceRegistry backed by
// an in-memory map. catalog/load calls Put once per loaded document.
func NewMemorySourceRegistry() *memorySourceRegistry {
	return &memorySourceRegistry{content: make(map[location.SourceID][]byte)}
}

// Put registers the raw bytes of a loaded document under id, overwriting any
// previous content for the same id (used when a hot reload re-reads a file).
func (r *memorySourceRegistry) Put(id location.SourceID, content []byte) {
	r.content[id] = content
}

func (r *memorySourceRegistry) ContentBySource(id location.SourceID) ([]byte, bool) {
	b, ok := r.content[id]
	return b, ok
}

func (r *memorySourceRegistry) Content(span location.Span) ([]byte, bool) {
	return r.ContentBySource(span.Source)
}

func (r *memorySourceRegistry) Keys() []location.SourceID {
	keys := make([]location.SourceID, 0, len(r.content))
	for id := range r.content {
		keys = append(keys, id)
	}
	slices.SortFunc(keys, func(a, b location.SourceID) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	})
	return keys
}

func (r *memorySourceRegistry) Has(id location.SourceID) bool {
	_, ok := r.content[id]
	return ok
}

func (r *memorySourceRegistry) Len() int {
	return len(r.content)
}
