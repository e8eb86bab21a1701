package catalog

import "slices"

// NodeIDKind distinguishes a single-column node identifier from a composite
// (multi-column) one.
type NodeIDKind uint8

const (
	NodeIDSingle NodeIDKind = iota
	NodeIDComposite
)

// NodeIdSchema describes how a node's identity is stored: either one typed
// column, or an ordered tuple of columns forming a composite key.
type NodeIdSchema struct {
	kind    NodeIDKind
	column  string
	typ     SchemaType
	columns []string
	types   []SchemaType
}

// NewSingleNodeID creates a single-column node identifier.
func NewSingleNodeID(column string, typ SchemaType) NodeIdSchema {
	if column == "" {
		panic("catalog: NewSingleNodeID: empty column name")
	}
	return NodeIdSchema{kind: NodeIDSingle, column: column, typ: typ}
}

// NewCompositeNodeID creates a multi-column node identifier.
func NewCompositeNodeID(columns []string, types []SchemaType) NodeIdSchema {
	if len(columns) == 0 {
		panic("catalog: NewCompositeNodeID: no columns")
	}
	if len(columns) != len(types) {
		panic("catalog: NewCompositeNodeID: columns/types length mismatch")
	}
	return NodeIdSchema{kind: NodeIDComposite, columns: slices.Clone(columns), types: slices.Clone(types)}
}

// Kind reports whether this is a single-column or composite identifier.
func (n NodeIdSchema) Kind() NodeIDKind {
	return n.kind
}

// Column returns the identifier column. Only valid when Kind is NodeIDSingle.
func (n NodeIdSchema) Column() string {
	return n.column
}

// Type returns the identifier column's type. Only valid when Kind is NodeIDSingle.
func (n NodeIdSchema) Type() SchemaType {
	return n.typ
}

// Columns returns a defensive copy of the composite key's columns. Only
// valid when Kind is NodeIDComposite.
func (n NodeIdSchema) Columns() []string {
	return slices.Clone(n.columns)
}

// Types returns a defensive copy of the composite key's column types. Only
// valid when Kind is NodeIDComposite.
func (n NodeIdSchema) Types() []SchemaType {
	return slices.Clone(n.types)
}

// NodeSchema describes how a node label maps onto a table (or, for
// denormalized nodes, onto the endpoint columns of an edge table).
//
// NodeSchema is immutable after Seal; property mappings and the engine
// classification may be filled in by catalog completion after construction
// (denormalized mirroring, column auto-discovery) and are guarded by the
// same sealed flag as GraphSchema itself.
type NodeSchema struct {
	label          Label
	table          string
	database       string
	nodeID         NodeIdSchema
	propertyMaps   map[string]PropertyValue
	isDenormalized bool
	fromProperties map[string]PropertyValue
	toProperties   map[string]PropertyValue
	filter         SchemaFilter
	engine         *EngineInfo
	sealed         bool
}

// NewNodeSchema creates a node schema for a regular (non-denormalized) node.
func NewNodeSchema(label Label, table, database string, nodeID NodeIdSchema) *NodeSchema {
	return &NodeSchema{
		label:        label,
		table:        table,
		database:     database,
		nodeID:       nodeID,
		propertyMaps: make(map[string]PropertyValue),
	}
}

// NewDenormalizedNodeSchema creates a node schema with no table of its own;
// its properties live on the endpoint columns of a relationship table.
func NewDenormalizedNodeSchema(label Label, nodeID NodeIdSchema) *NodeSchema {
	return &NodeSchema{
		label:          label,
		nodeID:         nodeID,
		isDenormalized: true,
		propertyMaps:   make(map[string]PropertyValue),
		fromProperties: make(map[string]PropertyValue),
		toProperties:   make(map[string]PropertyValue),
	}
}

// Label returns the node label.
func (n *NodeSchema) Label() Label { return n.label }

// Table returns the backing table name. Empty for denormalized nodes.
func (n *NodeSchema) Table() string { return n.table }

// Database returns the backing database name, if declared.
func (n *NodeSchema) Database() string { return n.database }

// NodeID returns the identifier schema.
func (n *NodeSchema) NodeID() NodeIdSchema { return n.nodeID }

// IsDenormalized reports whether this node has no own table; its properties
// live on an edge table instead.
func (n *NodeSchema) IsDenormalized() bool { return n.isDenormalized }

// Filter returns the schema-level WHERE predicate, if any.
func (n *NodeSchema) Filter() SchemaFilter { return n.filter }

// Engine returns the declared or discovered table engine, if known.
func (n *NodeSchema) Engine() *EngineInfo { return n.engine }

// Property looks up the SQL mapping for a Cypher property name.
func (n *NodeSchema) Property(cypherName string) (PropertyValue, bool) {
	v, ok := n.propertyMaps[cypherName]
	return v, ok
}

// PropertyNames returns all mapped Cypher property names.
func (n *NodeSchema) PropertyNames() []string {
	names := make([]string, 0, len(n.propertyMaps))
	for name := range n.propertyMaps {
		names = append(names, name)
	}
	return names
}

// FromProperty looks up a per-role mapping for the "from" endpoint of a
// denormalized node. Only meaningful when IsDenormalized.
func (n *NodeSchema) FromProperty(cypherName string) (PropertyValue, bool) {
	v, ok := n.fromProperties[cypherName]
	return v, ok
}

// ToProperty looks up a per-role mapping for the "to" endpoint of a
// denormalized node. Only meaningful when IsDenormalized.
func (n *NodeSchema) ToProperty(cypherName string) (PropertyValue, bool) {
	v, ok := n.toProperties[cypherName]
	return v, ok
}

// FromPropertyNames returns all Cypher property names mapped for the
// "from" role of a denormalized node.
func (n *NodeSchema) FromPropertyNames() []string {
	names := make([]string, 0, len(n.fromProperties))
	for name := range n.fromProperties {
		names = append(names, name)
	}
	return names
}

// ToPropertyNames returns all Cypher property names mapped for the "to"
// role of a denormalized node.
func (n *NodeSchema) ToPropertyNames() []string {
	names := make([]string, 0, len(n.toProperties))
	for name := range n.toProperties {
		names = append(names, name)
	}
	return names
}

// --- setters used during catalog construction/completion ---
// These panic if called after Seal and are not part of the stable API.

// Seal marks the node schema as immutable. Called once catalog completion
// finishes.
func (n *NodeSchema) Seal() { n.sealed = true }

// IsSealed reports whether the node schema has been sealed.
func (n *NodeSchema) IsSealed() bool { return n.sealed }

// SetProperty adds or replaces a Cypher-name-to-SQL mapping.
func (n *NodeSchema) SetProperty(cypherName string, value PropertyValue) {
	if n.sealed {
		panic("catalog: cannot mutate sealed NodeSchema")
	}
	n.propertyMaps[cypherName] = value
}

// SetFromProperty adds or replaces a "from"-role mapping for a denormalized
// node.
func (n *NodeSchema) SetFromProperty(cypherName string, value PropertyValue) {
	if n.sealed {
		panic("catalog: cannot mutate sealed NodeSchema")
	}
	n.fromProperties[cypherName] = value
}

// SetToProperty adds or replaces a "to"-role mapping for a denormalized
// node.
func (n *NodeSchema) SetToProperty(cypherName string, value PropertyValue) {
	if n.sealed {
		panic("catalog: cannot mutate sealed NodeSchema")
	}
	n.toProperties[cypherName] = value
}

// SetFilter sets the schema-level WHERE predicate.
func (n *NodeSchema) SetFilter(filter SchemaFilter) {
	if n.sealed {
		panic("catalog: cannot mutate sealed NodeSchema")
	}
	n.filter = filter
}

// SetEngine sets the declared or discovered table engine.
func (n *NodeSchema) SetEngine(engine EngineInfo) {
	if n.sealed {
		panic("catalog: cannot mutate sealed NodeSchema")
	}
	n.engine = &engine
}
