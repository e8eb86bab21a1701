package catalog

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// GraphSchema is a compiled, immutable description of how a property graph
// maps onto a relational store. After loading, a GraphSchema is safe for
// concurrent read access from many goroutines; hot reload builds a new
// instance rather than mutating one in place.
type GraphSchema struct {
	name string

	nodes         map[Label]*NodeSchema
	relationships map[CompositeKey]*RelationshipSchema
	relTypeIndex  map[RelType][]CompositeKey

	sealed bool
}

// NewGraphSchema creates an empty, unsealed GraphSchema ready for nodes and
// relationships to be added by a loader or builder.
func NewGraphSchema(name string) *GraphSchema {
	return &GraphSchema{
		name:          name,
		nodes:         make(map[Label]*NodeSchema),
		relationships: make(map[CompositeKey]*RelationshipSchema),
		relTypeIndex:  make(map[RelType][]CompositeKey),
	}
}

// Name returns the schema's declared name.
func (s *GraphSchema) Name() string { return s.name }

// Node looks up a node schema by label.
func (s *GraphSchema) Node(label Label) (*NodeSchema, error) {
	n, ok := s.nodes[label]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown node label %q", label)
	}
	return n, nil
}

// Rel looks up a relationship schema by type and endpoint labels.
func (s *GraphSchema) Rel(relType RelType, from, to Label) (*RelationshipSchema, error) {
	r, ok := s.relationships[NewCompositeKey(relType, from, to)]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown relationship %s between %s and %s", relType, from, to)
	}
	return r, nil
}

// RelByKey looks up a relationship schema directly by composite key.
func (s *GraphSchema) RelByKey(key CompositeKey) (*RelationshipSchema, error) {
	r, ok := s.relationships[key]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown relationship key %q", key)
	}
	return r, nil
}

// RelsForType returns every composite key registered under relType,
// regardless of endpoint labels. Used for untyped/generic traversals where
// only the relationship type is known.
func (s *GraphSchema) RelsForType(relType RelType) []CompositeKey {
	return slices.Clone(s.relTypeIndex[relType])
}

// ExpandGeneric enumerates every relationship definition connecting the
// from/to label pair, across all relationship types. Used when a pattern's
// relationship type is unspecified but both endpoint labels are known.
func (s *GraphSchema) ExpandGeneric(from, to Label) []*RelationshipSchema {
	var out []*RelationshipSchema
	for _, r := range s.relationships {
		if r.FromNode() == from && r.ToNode() == to {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *RelationshipSchema) int {
		if a.Type() != b.Type() {
			if a.Type() < b.Type() {
				return -1
			}
			return 1
		}
		return 0
	})
	return out
}

// CoupledEdges reports whether two relationship types share both their
// backing table and one endpoint node, meaning a single edge-table row
// produces both relationships simultaneously (the "coupled same row"
// pattern, e.g. an employment table row is both WORKS_AT and MANAGED_BY).
func (s *GraphSchema) CoupledEdges(type1, type2 RelType) bool {
	for _, k1 := range s.relTypeIndex[type1] {
		r1 := s.relationships[k1]
		for _, k2 := range s.relTypeIndex[type2] {
			r2 := s.relationships[k2]
			if r1.Table() == "" || r1.Table() != r2.Table() {
				continue
			}
			if r1.FromNode() == r2.FromNode() || r1.FromNode() == r2.ToNode() ||
				r1.ToNode() == r2.FromNode() || r1.ToNode() == r2.ToNode() {
				return true
			}
		}
	}
	return false
}

// Nodes returns an iterator over all node schemas, keyed by label.
// Iteration order is lexicographic by label.
func (s *GraphSchema) Nodes() iter.Seq2[Label, *NodeSchema] {
	return func(yield func(Label, *NodeSchema) bool) {
		for _, label := range sortedLabels(s.nodes) {
			if !yield(label, s.nodes[label]) {
				return
			}
		}
	}
}

// NodesSlice returns a defensive copy of all node schemas.
func (s *GraphSchema) NodesSlice() []*NodeSchema {
	out := make([]*NodeSchema, 0, len(s.nodes))
	for _, label := range sortedLabels(s.nodes) {
		out = append(out, s.nodes[label])
	}
	return out
}

// Relationships returns an iterator over all relationship schemas, keyed by
// composite key. Iteration order is lexicographic by key.
func (s *GraphSchema) Relationships() iter.Seq2[CompositeKey, *RelationshipSchema] {
	return func(yield func(CompositeKey, *RelationshipSchema) bool) {
		for _, key := range slices.Sorted(maps.Keys(s.relationships)) {
			if !yield(key, s.relationships[key]) {
				return
			}
		}
	}
}

// RelationshipsSlice returns a defensive copy of all relationship schemas.
func (s *GraphSchema) RelationshipsSlice() []*RelationshipSchema {
	out := make([]*RelationshipSchema, 0, len(s.relationships))
	for _, key := range slices.Sorted(maps.Keys(s.relationships)) {
		out = append(out, s.relationships[key])
	}
	return out
}

func sortedLabels(m map[Label]*NodeSchema) []Label {
	labels := make([]Label, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// IsSealed reports whether the schema has been sealed.
func (s *GraphSchema) IsSealed() bool { return s.sealed }

// Seal marks the schema, and every node/relationship it owns, as immutable.
// Called by the loader once rel_type_index construction, $any resolution,
// and denormalized-property mirroring are all complete.
func (s *GraphSchema) Seal() {
	if s.sealed {
		return
	}
	for _, n := range s.nodes {
		n.Seal()
	}
	for _, r := range s.relationships {
		r.Seal()
	}
	s.sealed = true
}

// AddNode registers a node schema under its label.
func (s *GraphSchema) AddNode(n *NodeSchema) error {
	if s.sealed {
		panic("catalog: cannot mutate sealed GraphSchema")
	}
	if _, exists := s.nodes[n.Label()]; exists {
		return fmt.Errorf("catalog: duplicate node label %q", n.Label())
	}
	s.nodes[n.Label()] = n
	return nil
}

// AddRelationship registers a relationship schema under its composite key
// and updates the type index.
func (s *GraphSchema) AddRelationship(r *RelationshipSchema) error {
	if s.sealed {
		panic("catalog: cannot mutate sealed GraphSchema")
	}
	key := r.CompositeKey()
	if _, exists := s.relationships[key]; exists {
		return fmt.Errorf("catalog: duplicate relationship definition %q", key)
	}
	s.relationships[key] = r
	s.relTypeIndex[r.Type()] = append(s.relTypeIndex[r.Type()], key)
	return nil
}
