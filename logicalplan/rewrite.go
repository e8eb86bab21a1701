package logicalplan

// WithChildren returns a copy of plan with its children replaced by
// newChildren, in the same order Children() reported them. Analyzer passes
// use this instead of mutating a node in place, preserving the shared
// subtree ownership model (§9): a pass that wants to change a subtree below
// some node builds the replacement node here and lets its own caller splice
// the new pointer in.
//
// WithChildren panics if len(newChildren) doesn't match len(plan.Children())
// for variants whose child count is fixed; GraphJoins, CartesianProduct, and
// Union accept any length since their child count is itself the thing being
// changed.
func WithChildren(plan LogicalPlan, newChildren []LogicalPlan) LogicalPlan {
	switch p := plan.(type) {
	case *GraphJoins:
		cp := *p
		cp.ChildPlans = newChildren
		return &cp
	case *CartesianProduct:
		cp := *p
		cp.Factors = newChildren
		return &cp
	case *Union:
		cp := *p
		cp.Branches = newChildren
		return &cp
	case *Filter:
		requireArity("Filter", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *Projection:
		requireArity("Projection", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *GroupBy:
		requireArity("GroupBy", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *OrderBy:
		requireArity("OrderBy", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *Limit:
		requireArity("Limit", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *Skip:
		requireArity("Skip", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *Unwind:
		requireArity("Unwind", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case *WithClause:
		requireArity("WithClause", newChildren, 1)
		cp := *p
		cp.Child = newChildren[0]
		return &cp
	case Call:
		if len(newChildren) == 0 {
			p.Child = nil
			return p
		}
		requireArity("Call", newChildren, 1)
		p.Child = newChildren[0]
		return p
	case *GraphNode, *GraphRel, *VlpScan, ViewScan, Empty:
		if len(newChildren) != 0 {
			panic("logicalplan: leaf node given children in WithChildren")
		}
		return plan
	default:
		panic("logicalplan: unhandled variant in WithChildren")
	}
}

func requireArity(op string, children []LogicalPlan, want int) {
	if len(children) != want {
		panic("logicalplan: " + op + " requires exactly one child in WithChildren")
	}
}

// Walk visits plan and every descendant, bottom-up (children before
// parent), calling visit on each. It does not rebuild the tree; use
// Rewrite when the tree itself needs to change.
func Walk(plan LogicalPlan, visit func(LogicalPlan)) {
	if plan == nil {
		return
	}
	for _, c := range plan.Children() {
		Walk(c, visit)
	}
	visit(plan)
}

// Rewrite rebuilds plan bottom-up: every child is rewritten first via
// WithChildren, then fn is applied to the node with its (possibly new)
// children already spliced in. fn returning the same node unchanged is the
// common case; fn returning a different node replaces it for the parent's
// next WithChildren call.
func Rewrite(plan LogicalPlan, fn func(LogicalPlan) LogicalPlan) LogicalPlan {
	if plan == nil {
		return nil
	}
	children := plan.Children()
	if len(children) > 0 {
		newChildren := make([]LogicalPlan, len(children))
		changed := false
		for i, c := range children {
			newChildren[i] = Rewrite(c, fn)
			if newChildren[i] != c {
				changed = true
			}
		}
		if changed {
			plan = WithChildren(plan, newChildren)
		}
	}
	return fn(plan)
}
