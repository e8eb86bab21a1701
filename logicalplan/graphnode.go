package logicalplan

import (
	"slices"

	"github.com/genezhang/clickgraph/cypherast"
)

// GraphNode is an unresolved (or partially resolved) node pattern: a
// variable alias, a candidate label set, and any inline property filters
// from the pattern literal ("{id: 1}").
//
// Labels starts nil (untyped) for a bare "(n)" pattern, or a fixed slice
// for "(n:User)". UnifiedTypeInference's relationship-based label inference
// (sub-phase 0) and WHERE constraint extraction (sub-phase 1) narrow an
// untyped node's Labels in place via SetLabels, before ViewScan resolution
// (sub-phase 3) replaces the GraphNode with a ViewScan leaf.
type GraphNode struct {
	Alias            string
	Labels           []string // nil = untyped
	InlineProperties map[string]cypherast.Expression

	sealed bool
}

// NewGraphNode creates a GraphNode from a parsed node pattern. Pass nil
// labels for an untyped node.
func NewGraphNode(alias string, labels []string, inlineProperties map[string]cypherast.Expression) *GraphNode {
	return &GraphNode{
		Alias:            alias,
		Labels:           slices.Clone(labels),
		InlineProperties: inlineProperties,
	}
}

func (n *GraphNode) Op() string              { return "GraphNode" }
func (n *GraphNode) Children() []LogicalPlan { return nil }
func (*GraphNode) logicalPlan()              {}

// IsTyped reports whether this node has a resolved, non-empty label set.
func (n *GraphNode) IsTyped() bool { return len(n.Labels) > 0 }

// Seal marks the node immutable; SetLabels panics after this.
func (n *GraphNode) Seal() { n.sealed = true }

// IsSealed reports whether Seal has been called.
func (n *GraphNode) IsSealed() bool { return n.sealed }

// SetLabels narrows (or assigns) the candidate label set. Called by
// UnifiedTypeInference once neighbor/WHERE constraints determine it.
func (n *GraphNode) SetLabels(labels []string) {
	if n.sealed {
		panic("logicalplan: cannot mutate sealed GraphNode")
	}
	n.Labels = slices.Clone(labels)
}
