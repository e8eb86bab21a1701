// Package catalogbuild provides a fluent, programmatic builder for
// constructing a catalog.GraphSchema without a YAML document, for use in
// tests and for catalog/load's async ClickHouse-discovery path once it has
// assembled the shape it discovered.
package catalogbuild

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/catalog/internal/complete"
	"github.com/genezhang/clickgraph/diag"
)

// Builder accumulates node and relationship definitions, then runs catalog
// completion to produce a sealed catalog.GraphSchema.
type Builder struct {
	name       string
	nodes      []*catalog.NodeSchema
	rels       []*catalog.RelationshipSchema
	issueLimit int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{issueLimit: 100}
}

// WithName sets the schema name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithIssueLimit sets the maximum number of diagnostics collected during
// Build. Default is 100; use diag.NoLimit for unlimited.
func (b *Builder) WithIssueLimit(limit int) *Builder {
	b.issueLimit = limit
	return b
}

// AddNode registers a node backed by its own table and returns a NodeBuilder
// for configuring its identifier, properties, filter, and engine.
func (b *Builder) AddNode(label catalog.Label, table, database string, id catalog.NodeIdSchema) *NodeBuilder {
	n := catalog.NewNodeSchema(label, table, database, id)
	b.nodes = append(b.nodes, n)
	return &NodeBuilder{parent: b, node: n}
}

// AddDenormalizedNode registers a node with no table of its own; its
// properties are supplied per-role by the relationships that reference it.
func (b *Builder) AddDenormalizedNode(label catalog.Label, id catalog.NodeIdSchema) *NodeBuilder {
	n := catalog.NewDenormalizedNodeSchema(label, id)
	b.nodes = append(b.nodes, n)
	return &NodeBuilder{parent: b, node: n}
}

// AddRelationship registers a relationship backed by its own edge table and
// returns a RelationshipBuilder for configuring its properties, edge_id,
// constraints, polymorphic discrimination, and engine.
func (b *Builder) AddRelationship(relType catalog.RelType, fromNode, toNode catalog.Label, table, database string, fromID, toID catalog.JoinColumns) *RelationshipBuilder {
	r := catalog.NewRelationshipSchema(relType, fromNode, toNode, table, database, fromID, toID)
	b.rels = append(b.rels, r)
	return &RelationshipBuilder{parent: b, rel: r}
}

// AddFkEdge registers a relationship represented by a foreign-key column on
// the "from" node's own table, with no separate edge table.
func (b *Builder) AddFkEdge(relType catalog.RelType, fromNode, toNode catalog.Label, fromID, toID catalog.JoinColumns) *RelationshipBuilder {
	r := catalog.NewFkEdgeSchema(relType, fromNode, toNode, fromID, toID)
	b.rels = append(b.rels, r)
	return &RelationshipBuilder{parent: b, rel: r}
}

// Build assembles the accumulated nodes and relationships into a
// catalog.GraphSchema and runs completion. Returns (nil, result) with
// result.HasErrors() true if any node/relationship conflicts or a
// completion phase fails; otherwise returns the sealed schema.
func (b *Builder) Build() (*catalog.GraphSchema, diag.Result) {
	if b.name == "" {
		panic("catalogbuild: schema name is required; call WithName() before Build()")
	}

	collector := diag.NewCollector(b.issueLimit)
	schema := catalog.NewGraphSchema(b.name)

	for _, n := range b.nodes {
		if err := schema.AddNode(n); err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_DUPLICATE_NODE_LABEL, err.Error()).
				WithPass("catalog-build", string(n.Label())).Build())
		}
	}
	for _, r := range b.rels {
		if err := schema.AddRelationship(r); err != nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_DUPLICATE_REL_KEY, err.Error()).
				WithPass("catalog-build", string(r.CompositeKey())).Build())
		}
	}
	if collector.HasErrors() {
		return nil, collector.Result()
	}

	if !complete.Complete(schema, collector) {
		return nil, collector.Result()
	}
	return schema, collector.Result()
}

// NodeBuilder configures a node definition in place before returning to its
// parent Builder via Done.
type NodeBuilder struct {
	parent *Builder
	node   *catalog.NodeSchema
}

// WithProperty maps a Cypher property name to a table column.
func (n *NodeBuilder) WithProperty(cypherName, column string) *NodeBuilder {
	n.node.SetProperty(cypherName, catalog.NewColumnProperty(column))
	return n
}

// WithExpressionProperty maps a Cypher property name to a SQL scalar
// expression, such as a computed or denormalized value.
func (n *NodeBuilder) WithExpressionProperty(cypherName, sqlExpr string) *NodeBuilder {
	v, err := catalog.NewExpressionProperty(sqlExpr)
	if err != nil {
		panic(fmt.Sprintf("catalogbuild: invalid expression property %q: %v", sqlExpr, err))
	}
	n.node.SetProperty(cypherName, v)
	return n
}

// WithFromProperty maps a Cypher property name to a column for the "from"
// role of a denormalized node.
func (n *NodeBuilder) WithFromProperty(cypherName, column string) *NodeBuilder {
	n.node.SetFromProperty(cypherName, catalog.NewColumnProperty(column))
	return n
}

// WithToProperty maps a Cypher property name to a column for the "to" role
// of a denormalized node.
func (n *NodeBuilder) WithToProperty(cypherName, column string) *NodeBuilder {
	n.node.SetToProperty(cypherName, catalog.NewColumnProperty(column))
	return n
}

// WithFilter parses and sets the node's schema-level WHERE predicate.
func (n *NodeBuilder) WithFilter(predicate string) *NodeBuilder {
	f, err := catalog.ParseSchemaFilter(predicate)
	if err != nil {
		panic(fmt.Sprintf("catalogbuild: invalid filter %q: %v", predicate, err))
	}
	n.node.SetFilter(f)
	return n
}

// WithEngine classifies and sets the node's backing table engine by name.
func (n *NodeBuilder) WithEngine(engineName string) *NodeBuilder {
	n.node.SetEngine(catalog.ClassifyEngine(engineName))
	return n
}

// Done returns to the parent Builder.
func (n *NodeBuilder) Done() *Builder {
	return n.parent
}

// RelationshipBuilder configures a relationship definition in place before
// returning to its parent Builder via Done.
type RelationshipBuilder struct {
	parent *Builder
	rel    *catalog.RelationshipSchema
}

// WithProperty maps a Cypher property name to an edge table column.
func (r *RelationshipBuilder) WithProperty(cypherName, column string) *RelationshipBuilder {
	r.rel.SetProperty(cypherName, catalog.NewColumnProperty(column))
	return r
}

// WithEdgeID sets the path-uniqueness identifier used by variable-length
// path recursion.
func (r *RelationshipBuilder) WithEdgeID(edgeID catalog.JoinColumns) *RelationshipBuilder {
	r.rel.SetEdgeID(edgeID)
	return r
}

// WithPolymorphicDiscrimination sets the discriminator columns and matching
// values used to resolve a "$any" endpoint at plan time.
func (r *RelationshipBuilder) WithPolymorphicDiscrimination(typeColumn, fromLabelColumn, toLabelColumn string, typeValues []string) *RelationshipBuilder {
	r.rel.SetPolymorphicDiscrimination(typeColumn, fromLabelColumn, toLabelColumn, typeValues)
	return r
}

// WithConstraint parses and sets the from/to correlation predicate.
func (r *RelationshipBuilder) WithConstraint(predicate string) *RelationshipBuilder {
	c, err := catalog.ParseRelationshipConstraint(predicate)
	if err != nil {
		panic(fmt.Sprintf("catalogbuild: invalid constraint %q: %v", predicate, err))
	}
	r.rel.SetConstraints(c)
	return r
}

// WithEngine classifies and sets the relationship's backing table engine by
// name.
func (r *RelationshipBuilder) WithEngine(engineName string) *RelationshipBuilder {
	r.rel.SetEngine(catalog.ClassifyEngine(engineName))
	return r
}

// Done returns to the parent Builder.
func (r *RelationshipBuilder) Done() *Builder {
	return r.parent
}
