package analyzer

import "github.com/genezhang/clickgraph/logicalplan"

// unionDistribution is §4.3 pass 5: hoist a Union that bidirectionalUnion
// (or unifiedTypeInference's standalone-untyped case) left as one child of
// a GraphJoins/CartesianProduct/Filter/WithClause out to wrap the whole
// container, so each branch ends up with its own independent FROM/JOIN
// chain instead of one JOIN chain trying to hold both directed
// interpretations at once.
func (r *runner) unionDistribution() error {
	r.plan = logicalplan.Rewrite(r.plan, hoistUnionChildren)
	return nil
}

// hoistUnionChildren repeatedly pulls any Union among p's direct children
// out to wrap p, producing one copy of p per branch. Recurses into each
// produced copy so a node with more than one Union child fully flattens,
// and flattens a branch that is itself a Union (same ALL-ness) into the
// parent union rather than nesting unions.
func hoistUnionChildren(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
	children := p.Children()
	for i, c := range children {
		union, ok := c.(*logicalplan.Union)
		if !ok {
			continue
		}
		newBranches := make([]logicalplan.LogicalPlan, 0, len(union.Branches))
		for _, b := range union.Branches {
			newChildren := append([]logicalplan.LogicalPlan(nil), children...)
			newChildren[i] = b
			rebuilt := hoistUnionChildren(logicalplan.WithChildren(p, newChildren))
			if inner, ok := rebuilt.(*logicalplan.Union); ok && inner.All == union.All {
				newBranches = append(newBranches, inner.Branches...)
			} else {
				newBranches = append(newBranches, rebuilt)
			}
		}
		return logicalplan.NewUnion(newBranches, union.All)
	}
	return p
}
