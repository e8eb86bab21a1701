package catalog

import (
	"slices"

	"github.com/genezhang/clickgraph/exprlang"
)

// JoinColumns names the column(s) used to join a relationship to one of its
// endpoint nodes: either a single column or an ordered composite tuple.
type JoinColumns struct {
	kind    NodeIDKind
	column  string
	columns []string
}

// NewSingleJoinColumn creates a single-column join key.
func NewSingleJoinColumn(column string) JoinColumns {
	if column == "" {
		panic("catalog: NewSingleJoinColumn: empty column name")
	}
	return JoinColumns{kind: NodeIDSingle, column: column}
}

// NewCompositeJoinColumns creates a multi-column join key.
func NewCompositeJoinColumns(columns []string) JoinColumns {
	if len(columns) == 0 {
		panic("catalog: NewCompositeJoinColumns: no columns")
	}
	return JoinColumns{kind: NodeIDComposite, columns: slices.Clone(columns)}
}

// Kind reports whether this is a single-column or composite join key.
func (j JoinColumns) Kind() NodeIDKind { return j.kind }

// Column returns the join column. Only valid when Kind is NodeIDSingle.
func (j JoinColumns) Column() string { return j.column }

// Columns returns a defensive copy of the composite join columns. Only
// valid when Kind is NodeIDComposite.
func (j JoinColumns) Columns() []string { return slices.Clone(j.columns) }

// IsZero reports whether no join key was set.
func (j JoinColumns) IsZero() bool {
	return j.column == "" && len(j.columns) == 0
}

// RelationshipConstraint is a compiled predicate relating the "from" and
// "to" endpoints of a relationship (e.g. "from.region = to.region"),
// rendered with the conventional aliases "from" and "to" resolved by the
// caller to the actual join aliases at render time.
type RelationshipConstraint struct {
	expr exprlang.Expression
}

// ParseRelationshipConstraint parses a "from.x ... to.y" predicate string.
func ParseRelationshipConstraint(source string) (RelationshipConstraint, error) {
	expr, err := exprlang.Parse(source)
	if err != nil {
		return RelationshipConstraint{}, err
	}
	return RelationshipConstraint{expr: expr}, nil
}

// IsZero reports whether no constraint was declared.
func (c RelationshipConstraint) IsZero() bool { return c.expr == nil }

// Render serializes the constraint as SQL, rewriting "from"/"to" aliases
// through resolve.
func (c RelationshipConstraint) Render(resolve exprlang.AliasResolver) (string, error) {
	if c.IsZero() {
		return "", nil
	}
	return exprlang.Render(c.expr, resolve)
}

// RelationshipSchema describes one edge definition: a relationship type
// between a specific pair of node labels (or the polymorphic wildcard
// AnyLabel on one or both ends).
//
// The same RelType may appear in many RelationshipSchema values, one per
// distinct endpoint-label pairing; GraphSchema keys them by CompositeKey.
type RelationshipSchema struct {
	relType  RelType
	table    string
	database string
	fromNode Label
	toNode   Label

	fromID JoinColumns
	toID   JoinColumns
	edgeID JoinColumns // zero value means "no declared edge_id"

	propertyMaps map[string]PropertyValue

	isFkEdge bool

	typeColumn      string
	fromLabelColumn string
	toLabelColumn   string
	typeValues      []string

	constraints RelationshipConstraint

	fromNodeProperties map[string]PropertyValue
	toNodeProperties   map[string]PropertyValue

	engine *EngineInfo
	sealed bool
}

// NewRelationshipSchema creates a relationship schema backed by its own
// edge table.
func NewRelationshipSchema(relType RelType, fromNode, toNode Label, table, database string, fromID, toID JoinColumns) *RelationshipSchema {
	return &RelationshipSchema{
		relType:      relType,
		fromNode:     fromNode,
		toNode:       toNode,
		table:        table,
		database:     database,
		fromID:       fromID,
		toID:         toID,
		propertyMaps: make(map[string]PropertyValue),
	}
}

// NewFkEdgeSchema creates a relationship schema with no separate edge
// table; the edge is represented by a foreign-key column directly on the
// "from" node's table.
func NewFkEdgeSchema(relType RelType, fromNode, toNode Label, fromID, toID JoinColumns) *RelationshipSchema {
	return &RelationshipSchema{
		relType:      relType,
		fromNode:     fromNode,
		toNode:       toNode,
		fromID:       fromID,
		toID:         toID,
		isFkEdge:     true,
		propertyMaps: make(map[string]PropertyValue),
	}
}

// CompositeKey returns the unique key for this relationship definition.
func (r *RelationshipSchema) CompositeKey() CompositeKey {
	return NewCompositeKey(r.relType, r.fromNode, r.toNode)
}

// Type returns the relationship type name.
func (r *RelationshipSchema) Type() RelType { return r.relType }

// Table returns the backing edge table. Empty for an FK edge.
func (r *RelationshipSchema) Table() string { return r.table }

// Database returns the backing database, if declared.
func (r *RelationshipSchema) Database() string { return r.database }

// FromNode returns the "from" endpoint label, possibly AnyLabel.
func (r *RelationshipSchema) FromNode() Label { return r.fromNode }

// ToNode returns the "to" endpoint label, possibly AnyLabel.
func (r *RelationshipSchema) ToNode() Label { return r.toNode }

// IsPolymorphic reports whether either endpoint is the AnyLabel wildcard.
func (r *RelationshipSchema) IsPolymorphic() bool {
	return r.fromNode.IsAny() || r.toNode.IsAny()
}

// FromID returns the join columns to the "from" node.
func (r *RelationshipSchema) FromID() JoinColumns { return r.fromID }

// ToID returns the join columns to the "to" node.
func (r *RelationshipSchema) ToID() JoinColumns { return r.toID }

// EdgeID returns the path-uniqueness identifier used by variable-length
// path recursion, if declared.
func (r *RelationshipSchema) EdgeID() JoinColumns { return r.edgeID }

// HasEdgeID reports whether an edge_id was declared.
func (r *RelationshipSchema) HasEdgeID() bool { return !r.edgeID.IsZero() }

// IsFkEdge reports whether this edge has no separate table: it is a
// foreign-key column on the "from" node's own table.
func (r *RelationshipSchema) IsFkEdge() bool { return r.isFkEdge }

// TypeColumn returns the discriminator column used for polymorphic type
// resolution, if declared.
func (r *RelationshipSchema) TypeColumn() string { return r.typeColumn }

// FromLabelColumn returns the discriminator column for the "from" endpoint
// label, if declared.
func (r *RelationshipSchema) FromLabelColumn() string { return r.fromLabelColumn }

// ToLabelColumn returns the discriminator column for the "to" endpoint
// label, if declared.
func (r *RelationshipSchema) ToLabelColumn() string { return r.toLabelColumn }

// TypeValues returns the declared discriminator values this definition
// matches, if polymorphic discrimination by value (rather than by table) is
// in use.
func (r *RelationshipSchema) TypeValues() []string { return slices.Clone(r.typeValues) }

// Constraints returns the compiled from/to correlation predicate, if any.
func (r *RelationshipSchema) Constraints() RelationshipConstraint { return r.constraints }

// Engine returns the declared or discovered table engine, if known.
func (r *RelationshipSchema) Engine() *EngineInfo { return r.engine }

// Property looks up the SQL mapping for a Cypher property name on the edge
// itself.
func (r *RelationshipSchema) Property(cypherName string) (PropertyValue, bool) {
	v, ok := r.propertyMaps[cypherName]
	return v, ok
}

// PropertyNames returns all Cypher property names mapped on the edge
// itself.
func (r *RelationshipSchema) PropertyNames() []string {
	names := make([]string, 0, len(r.propertyMaps))
	for name := range r.propertyMaps {
		names = append(names, name)
	}
	return names
}

// FromNodeProperty looks up the mirrored mapping for a denormalized "from"
// node property stored on this edge.
func (r *RelationshipSchema) FromNodeProperty(cypherName string) (PropertyValue, bool) {
	v, ok := r.fromNodeProperties[cypherName]
	return v, ok
}

// ToNodeProperty looks up the mirrored mapping for a denormalized "to" node
// property stored on this edge.
func (r *RelationshipSchema) ToNodeProperty(cypherName string) (PropertyValue, bool) {
	v, ok := r.toNodeProperties[cypherName]
	return v, ok
}

// --- setters used during catalog construction/completion ---

// Seal marks the relationship schema as immutable.
func (r *RelationshipSchema) Seal() { r.sealed = true }

// IsSealed reports whether the relationship schema has been sealed.
func (r *RelationshipSchema) IsSealed() bool { return r.sealed }

// SetProperty adds or replaces a Cypher-name-to-SQL mapping.
func (r *RelationshipSchema) SetProperty(cypherName string, value PropertyValue) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	r.propertyMaps[cypherName] = value
}

// SetEdgeID sets the path-uniqueness identifier.
func (r *RelationshipSchema) SetEdgeID(edgeID JoinColumns) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	r.edgeID = edgeID
}

// SetPolymorphicDiscrimination sets the discriminator columns and matching
// values used to resolve a "$any" endpoint at plan time.
func (r *RelationshipSchema) SetPolymorphicDiscrimination(typeColumn, fromLabelColumn, toLabelColumn string, typeValues []string) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	r.typeColumn = typeColumn
	r.fromLabelColumn = fromLabelColumn
	r.toLabelColumn = toLabelColumn
	r.typeValues = slices.Clone(typeValues)
}

// SetConstraints sets the compiled from/to correlation predicate.
func (r *RelationshipSchema) SetConstraints(c RelationshipConstraint) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	r.constraints = c
}

// SetEngine sets the declared or discovered table engine.
func (r *RelationshipSchema) SetEngine(engine EngineInfo) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	r.engine = &engine
}

// SetFromNodeProperty adds or replaces a mirrored mapping for a
// denormalized "from" node property, populated by catalog completion from
// the node definition's from_properties.
func (r *RelationshipSchema) SetFromNodeProperty(cypherName string, value PropertyValue) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	if r.fromNodeProperties == nil {
		r.fromNodeProperties = make(map[string]PropertyValue)
	}
	r.fromNodeProperties[cypherName] = value
}

// SetToNodeProperty adds or replaces a mirrored mapping for a denormalized
// "to" node property, populated by catalog completion from the node
// definition's to_properties.
func (r *RelationshipSchema) SetToNodeProperty(cypherName string, value PropertyValue) {
	if r.sealed {
		panic("catalog: cannot mutate sealed RelationshipSchema")
	}
	if r.toNodeProperties == nil {
		r.toNodeProperties = make(map[string]PropertyValue)
	}
	r.toNodeProperties[cypherName] = value
}
