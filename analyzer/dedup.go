package analyzer

import "github.com/genezhang/clickgraph/logicalplan"

// duplicateScansRemoving is §4.3 pass 12: UnionDistribution (pass 5) can
// leave two identical ViewScan entries for the same alias inside one
// GraphJoins block, when a pattern variable was already resolved before
// the union was hoisted out above it. Collapsing to the first occurrence
// is safe because ViewScan resolution is deterministic per alias: two
// ViewScans sharing an alias within the same block always carry the same
// table/label/columns.
func (r *runner) duplicateScansRemoving() error {
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		gj, ok := p.(*logicalplan.GraphJoins)
		if !ok {
			return p
		}
		seen := map[string]bool{}
		changed := false
		newChildren := make([]logicalplan.LogicalPlan, 0, len(gj.ChildPlans))
		for _, c := range gj.ChildPlans {
			if v, ok := c.(logicalplan.ViewScan); ok {
				if seen[v.Alias] {
					changed = true
					continue
				}
				seen[v.Alias] = true
			}
			newChildren = append(newChildren, c)
		}
		if !changed {
			return p
		}
		out := *gj
		out.ChildPlans = newChildren
		return &out
	})
	return nil
}
