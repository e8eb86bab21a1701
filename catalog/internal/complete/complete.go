// Package complete runs the ordered finishing phases that turn a
// partially-built GraphSchema (nodes and relationships added one at a time
// by a loader or builder) into a sealed, query-ready one.
package complete

import (
	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/diag"
)

// Complete runs every completion phase against schema and seals it on
// success. Diagnostics are collected rather than returned directly so a
// caller can report every problem in a malformed catalog at once instead of
// failing on the first one.
//
// Complete returns false if any phase collected a fatal or error-severity
// issue; the schema is left unsealed in that case.
func Complete(schema *catalog.GraphSchema, collector *diag.Collector) bool {
	c := &completer{schema: schema, collector: collector}

	if !c.indexRelTypes() {
		return false
	}
	if !c.resolvePolymorphicWildcards() {
		return false
	}
	if !c.detectPolymorphicCycles() {
		return false
	}
	if !c.mirrorDenormalizedProperties() {
		return false
	}

	if collector.HasErrors() {
		return false
	}

	schema.Seal()
	return true
}

type completer struct {
	schema    *catalog.GraphSchema
	collector *diag.Collector
}

// indexRelTypes verifies every relationship is reachable through
// GraphSchema.RelsForType for its own type. GraphSchema.AddRelationship
// maintains the index incrementally; this phase is the single point that
// would need to change if that stopped being true.
func (c *completer) indexRelTypes() bool {
	for key, rel := range c.schema.Relationships() {
		found := false
		for _, k := range c.schema.RelsForType(rel.Type()) {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			c.collector.Collect(diag.NewIssue(diag.Error, diag.E_INTERNAL,
				"relationship missing from its own type index").
				WithPass("catalog-complete", string(key)).
				Build())
			return false
		}
	}
	return true
}

// resolvePolymorphicWildcards verifies every "$any" endpoint has at least
// one concrete node label it could resolve to at plan time (via
// ExpandGeneric against the fixed endpoint, or via declared type_values
// when both endpoints are wildcards).
func (c *completer) resolvePolymorphicWildcards() bool {
	ok := true
	for key, rel := range c.schema.Relationships() {
		if !rel.IsPolymorphic() {
			continue
		}
		if len(candidateLabels(c.schema, rel)) == 0 {
			c.collector.Collect(diag.NewIssue(diag.Error, diag.E_POLYMORPHIC_NO_MATCH,
				"polymorphic relationship has no matching concrete node labels").
				WithPass("catalog-complete", string(key)).
				WithDetail(diag.DetailKeyRelType, string(rel.Type())).
				Build())
			ok = false
		}
	}
	return ok
}

// candidateLabels returns the concrete node labels a polymorphic
// relationship's "$any" endpoint(s) could resolve to: every declared node
// label other than the fixed endpoint, when the fixed endpoint is known and
// the schema declares at least one other node; all declared labels mentioned
// in type_values when both endpoints are wildcards.
func candidateLabels(schema *catalog.GraphSchema, rel *catalog.RelationshipSchema) []catalog.Label {
	if !rel.FromNode().IsAny() {
		return expandSide(schema, rel.FromNode())
	}
	if !rel.ToNode().IsAny() {
		return expandSide(schema, rel.ToNode())
	}
	var out []catalog.Label
	for _, v := range rel.TypeValues() {
		if _, err := schema.Node(catalog.Label(v)); err == nil {
			out = append(out, catalog.Label(v))
		}
	}
	return out
}

// expandSide returns every declared node label except fixed, representing
// the candidates the opposite "$any" endpoint could resolve to.
func expandSide(schema *catalog.GraphSchema, fixed catalog.Label) []catalog.Label {
	var out []catalog.Label
	for label := range schema.Nodes() {
		if label != fixed {
			out = append(out, label)
		}
	}
	return out
}

// mirrorDenormalizedProperties copies a denormalized node's from_properties
// and to_properties onto every relationship that references it in the
// matching role, so relationship-level property lookup never needs to
// special-case "my endpoint node has no table."
func (c *completer) mirrorDenormalizedProperties() bool {
	for _, rel := range c.schema.Relationships() {
		if fromNode, err := c.schema.Node(rel.FromNode()); err == nil && fromNode.IsDenormalized() {
			mirrorRole(fromNode.FromPropertyNames(), fromNode.FromProperty, rel.SetFromNodeProperty)
		}
		if toNode, err := c.schema.Node(rel.ToNode()); err == nil && toNode.IsDenormalized() {
			mirrorRole(toNode.ToPropertyNames(), toNode.ToProperty, rel.SetToNodeProperty)
		}
	}
	return true
}

func mirrorRole(names []string, get func(string) (catalog.PropertyValue, bool), set func(string, catalog.PropertyValue)) {
	for _, name := range names {
		if v, ok := get(name); ok {
			set(name, v)
		}
	}
}
