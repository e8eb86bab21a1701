package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// unifiedTypeInference is the load-bearing pass (§4.3 pass 1). It resolves
// every GraphNode's label and every GraphRel's type set, then replaces
// typed GraphNode leaves with ViewScan references.
//
// Implemented sub-phases: (0) relationship-based label inference — an
// untyped node adjacent to a singly-typed relationship narrows to the
// labels the schema allows on that side; (3) ViewScan resolution once a
// node's label is known. Sub-phase (2), UNION branch generation, is
// implemented for the standalone untyped node (no adjacent relationship at
// all, e.g. "MATCH (n) RETURN count(n)") by scanning every declared label,
// bounded by PlanCtx.MaxUntypedCombinations, and replacing the GraphJoins
// with a Union of per-label branches so an aggregation sitting above it
// sees one unioned row set rather than being duplicated into each branch.
// A node that stays ambiguous after relationship-based inference but has
// at least one neighbor (so it's not the standalone case) resolves to the
// first label in the schema's lexicographic label order (NodesSlice), with
// no check against its neighbors, rather than a full cartesian UNION
// across every ambiguous element in the pattern — the general multi-element
// enumeration in §4.3 pass 1 sub-phase 2 is not implemented. Sub-phase (1),
// WHERE-constraint label extraction, is not performed by any pass: no label
// is derived from an id(x) predicate (filterTagging only rewrites id(x)
// into the node-ID marker). Sub-phase (4), Cypher-level UNION
// reconciliation, is left to the caller.
func (r *runner) unifiedTypeInference() error {
	var firstErr error
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		if firstErr != nil {
			return p
		}
		gj, ok := p.(*logicalplan.GraphJoins)
		if !ok {
			return p
		}
		resolved, err := r.resolveBlockTypes(gj)
		if err != nil {
			firstErr = err
			return p
		}
		return resolved
	})
	return firstErr
}

func (r *runner) resolveBlockTypes(gj *logicalplan.GraphJoins) (logicalplan.LogicalPlan, error) {
	nodes := map[string]*logicalplan.GraphNode{}
	var rels []*logicalplan.GraphRel
	hasOther := false
	for _, c := range gj.ChildPlans {
		switch v := c.(type) {
		case *logicalplan.GraphNode:
			nodes[v.Alias] = v
		case *logicalplan.GraphRel:
			rels = append(rels, v)
		default:
			hasOther = true
		}
	}
	if hasOther || len(nodes) == 0 {
		return gj, nil
	}

	if err := r.inferAdjacentLabels(nodes, rels); err != nil {
		return nil, err
	}

	if len(rels) == 0 && len(nodes) == 1 {
		for _, n := range nodes {
			if !n.IsTyped() {
				return r.standaloneUntypedUnion(gj, n)
			}
		}
	}

	newChildren := make([]logicalplan.LogicalPlan, 0, len(gj.ChildPlans))
	for _, c := range gj.ChildPlans {
		node, ok := c.(*logicalplan.GraphNode)
		if !ok {
			newChildren = append(newChildren, c)
			continue
		}
		if !node.IsTyped() {
			// Ambiguous but not standalone: narrow to the first
			// label in lexicographic order, a documented simplification of full
			// branch enumeration.
			schemas := r.schema.NodesSlice()
			if len(schemas) == 0 {
				return nil, planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
					"no node labels declared in schema").
					WithPass("unified_type_inference", node.Alias).Build())
			}
			node.SetLabels([]string{string(schemas[0].Label())})
		}
		scan, err := r.resolveViewScan(node)
		if err != nil {
			return nil, err
		}
		newChildren = append(newChildren, scan)
	}

	out := *gj
	out.ChildPlans = newChildren
	return &out, nil
}

// inferAdjacentLabels narrows untyped nodes whose neighbor relationship has
// exactly one candidate type, using the schema's composite-key index to
// find which labels are valid on the narrowing side. Iterates to a fixed
// point since narrowing one node can make a previously-ambiguous neighbor's
// relationship newly decisive.
func (r *runner) inferAdjacentLabels(nodes map[string]*logicalplan.GraphNode, rels []*logicalplan.GraphRel) error {
	for changed := true; changed; {
		changed = false
		for _, rel := range rels {
			if len(rel.Types) != 1 {
				continue
			}
			relType := catalog.RelType(rel.Types[0])
			keys := r.schema.RelsForType(relType)
			if len(keys) == 0 {
				return planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_REL_TYPE,
					fmt.Sprintf("unknown relationship type %q", relType)).
					WithPass("unified_type_inference", rel.Alias).
					WithDetail(diag.DetailKeyRelType, string(relType)).Build())
			}

			left := nodes[rel.LeftConnection]
			right := nodes[rel.RightConnection]

			if left != nil && !left.IsTyped() {
				if resolved, ok := narrowSide(keys, "from", right); ok {
					left.SetLabels([]string{string(resolved)})
					changed = true
				}
			}
			if right != nil && !right.IsTyped() {
				if resolved, ok := narrowSide(keys, "to", left); ok {
					right.SetLabels([]string{string(resolved)})
					changed = true
				}
			}
		}
	}
	return nil
}

// narrowSide returns the single label consistent with the opposite side's
// binding (if typed) across all composite keys for one relationship type.
// ok is false when zero or more than one distinct candidate remains.
func narrowSide(keys []catalog.CompositeKey, side string, opposite *logicalplan.GraphNode) (catalog.Label, bool) {
	candidates := map[catalog.Label]bool{}
	for _, key := range keys {
		_, from, to, ok := key.Parts()
		if !ok {
			continue
		}
		if opposite != nil && opposite.IsTyped() {
			oppositeLabel := catalog.Label(opposite.Labels[0])
			if side == "from" && to != oppositeLabel {
				continue
			}
			if side == "to" && from != oppositeLabel {
				continue
			}
		}
		if side == "from" {
			candidates[from] = true
		} else {
			candidates[to] = true
		}
	}
	if len(candidates) != 1 {
		return "", false
	}
	for label := range candidates {
		return label, true
	}
	return "", false
}

// standaloneUntypedUnion implements §4.3 pass 1 sub-phase 2 for the
// no-neighbor case: one Union branch per declared node label, each a
// GraphJoins wrapping a resolved ViewScan for that label.
func (r *runner) standaloneUntypedUnion(gj *logicalplan.GraphJoins, node *logicalplan.GraphNode) (logicalplan.LogicalPlan, error) {
	schemas := r.schema.NodesSlice()
	if len(schemas) == 0 {
		return nil, planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
			"no node labels declared in schema").
			WithPass("unified_type_inference", node.Alias).Build())
	}

	branches := make([]logicalplan.LogicalPlan, 0, len(schemas))
	for _, nodeSchema := range schemas {
		label := nodeSchema.Label()
		if r.planCtx.NoteUntypedCombination() {
			return nil, planerr.InferenceError(diag.NewIssue(diag.Error, diag.E_COMBINATION_LIMIT_EXCEEDED,
				"untyped pattern expansion exceeded the configured combination limit").
				WithPass("unified_type_inference", node.Alias).
				WithDetail(diag.DetailKeyMaxCombinations, fmt.Sprint(r.planCtx.MaxUntypedCombinations())).Build())
		}
		branchNode := logicalplan.NewGraphNode(node.Alias, []string{string(label)}, node.InlineProperties)
		scan, err := r.resolveViewScan(branchNode)
		if err != nil {
			return nil, err
		}
		branchJoins := *gj
		branchJoins.ChildPlans = []logicalplan.LogicalPlan{scan}
		branches = append(branches, &branchJoins)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return logicalplan.NewUnion(branches, true), nil
}

// resolveViewScan replaces a typed GraphNode with its concrete table
// reference (§4.3 pass 1 sub-phase 3). A node with more than one resolved
// label (a future multi-label feature) is rejected for now: the catalog
// models one table per label.
func (r *runner) resolveViewScan(node *logicalplan.GraphNode) (logicalplan.ViewScan, error) {
	if len(node.Labels) != 1 {
		return logicalplan.ViewScan{}, planerr.ValidationError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
			"node pattern must resolve to exactly one label").
			WithPass("unified_type_inference", node.Alias).Build())
	}
	label := catalog.Label(node.Labels[0])
	schema, err := r.schema.Node(label)
	if err != nil {
		return logicalplan.ViewScan{}, planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
			fmt.Sprintf("unknown node label %q", label)).
			WithPass("unified_type_inference", node.Alias).
			WithDetail(diag.DetailKeyLabel, string(label)).Build())
	}
	r.planCtx.RegisterAliasLabel(node.Alias, string(label))
	r.planCtx.BindVariable(node.Alias, logicalplan.VariableScan)
	return logicalplan.ViewScan{
		Alias:    node.Alias,
		Database: schema.Database(),
		Table:    schema.Table(),
		Label:    string(label),
		Columns:  schema.PropertyNames(),
	}, nil
}
