package logicalplan

import (
	"fmt"

	"github.com/genezhang/clickgraph/cypherast"
)

// Build converts a parsed query into its initial LogicalPlan, before any
// analyzer pass runs. It performs no schema lookups and no type inference;
// it only reshapes syntax into the plan-node sum type, one GraphNode per
// node pattern and one GraphRel per relationship pattern, with direction
// already normalized to source/target (§4.2).
func Build(query *cypherast.Query) (LogicalPlan, error) {
	var plan LogicalPlan
	for _, clause := range query.Clauses {
		next, err := buildClause(plan, clause)
		if err != nil {
			return nil, err
		}
		plan = next
	}
	if plan == nil {
		return nil, fmt.Errorf("logicalplan: empty query")
	}
	return plan, nil
}

func buildClause(child LogicalPlan, clause cypherast.Clause) (LogicalPlan, error) {
	switch c := clause.(type) {
	case cypherast.MatchClause:
		return buildMatch(child, c)
	case cypherast.WithClause:
		return buildWith(child, c)
	case cypherast.ReturnClause:
		return buildReturn(child, c)
	case cypherast.UnwindClause:
		return &Unwind{Child: child, Expr: c.Expr, As: c.As}, nil
	case cypherast.UnionClause:
		// A UnionClause marker separates already-built sibling branches; the
		// caller (a higher-level multi-query builder, not this function) is
		// responsible for collecting branches and wrapping them in Union.
		// Build operates one linear clause list at a time, so a bare
		// UnionClause reaching here means the query text itself had a
		// top-level UNION, which a caller must split before calling Build
		// per branch.
		return nil, fmt.Errorf("logicalplan: UNION must be split into branches before Build")
	case cypherast.CallClause:
		return &Call{ProcedureName: c.ProcedureName, Args: toAnySlice(c.Args), Yield: c.Yield, Child: child}, nil
	default:
		panic(fmt.Sprintf("logicalplan: unhandled clause variant %T", clause))
	}
}

func toAnySlice(exprs []cypherast.Expression) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}
	return out
}

// buildMatch turns every pattern in a MATCH clause into a GraphNode/GraphRel
// subplan, combines multiple comma-separated patterns into a
// CartesianProduct, wraps the result in GraphJoins to mark it ready for
// JOIN inference, flags contained GraphRel nodes optional when the clause
// is OPTIONAL MATCH, and applies the WHERE predicate (if any) as a Filter
// above the joins.
func buildMatch(child LogicalPlan, m cypherast.MatchClause) (LogicalPlan, error) {
	factors := make([]LogicalPlan, 0, len(m.Patterns))
	for _, pattern := range m.Patterns {
		factor, err := buildPattern(pattern, m.Optional)
		if err != nil {
			return nil, err
		}
		factors = append(factors, factor)
	}

	var block LogicalPlan
	if len(factors) == 1 {
		block = factors[0]
	} else {
		block = NewCartesianProduct(factors)
	}

	var childPlans []LogicalPlan
	if child != nil {
		childPlans = []LogicalPlan{child, block}
	} else {
		childPlans = []LogicalPlan{block}
	}
	joins := NewGraphJoins(childPlans)

	var plan LogicalPlan = joins
	if m.Where != nil {
		plan = &Filter{Child: plan, Predicate: m.Where}
	}
	return plan, nil
}

// buildPattern converts one connected path into a chain of GraphNode and
// GraphRel subplans. A single-node pattern ("(n)") produces just the
// GraphNode; a path produces nodes and rels wrapped together so
// GraphJoinInference can see the whole chain, represented here as nested
// GraphJoins over the pairwise elements (one GraphRel per hop, carrying its
// own left/right connection aliases; the aliases alone are enough for
// GraphJoinInference to reconstruct the chain without this function
// needing to pre-decide a join order).
func buildPattern(pattern cypherast.Pattern, optional bool) (LogicalPlan, error) {
	nodes := pattern.Nodes()
	rels := pattern.Relationships()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("logicalplan: empty pattern")
	}

	elements := make([]LogicalPlan, 0, len(nodes)+len(rels))
	for _, n := range nodes {
		elements = append(elements, buildNode(n))
	}
	for i, r := range rels {
		left := nodes[i].Variable
		right := nodes[i+1].Variable
		rel, err := buildRel(r, left, right)
		if err != nil {
			return nil, err
		}
		if optional {
			rel.IsOptional = true
		}
		// shortestPath()/allShortestPaths() wrap the whole path, not one
		// relationship, but every pattern this planner accepts with either
		// flag set contains exactly one (variable-length) relationship, so
		// propagating it onto each GraphRel built from the pattern is exact.
		rel.ShortestPath = pattern.ShortestPath
		rel.AllShortestPaths = pattern.AllShortestPaths
		elements = append(elements, rel)
	}

	if len(elements) == 1 {
		return elements[0], nil
	}
	return NewGraphJoins(elements), nil
}

func buildNode(n cypherast.NodePattern) *GraphNode {
	inline := n.Properties
	return NewGraphNode(n.Variable, n.Labels, inline)
}

// buildRel normalizes surface arrow direction to source/target: Outgoing
// keeps left=source/right=target as written; Incoming swaps them so
// LeftConnection/RightConnection are always source/target regardless of
// which way the arrow pointed in the query text; Either (undirected) keeps
// the syntactic order and leaves resolution to the analyzer's
// bidirectional-union pass.
func buildRel(r cypherast.RelationshipPattern, syntacticLeft, syntacticRight string) (*GraphRel, error) {
	source, target := syntacticLeft, syntacticRight
	if r.Direction == cypherast.Incoming {
		source, target = syntacticRight, syntacticLeft
	}

	var length *LengthRange
	if r.Length != nil {
		length = &LengthRange{MinHops: r.Length.MinHops, MaxHops: r.Length.MaxHops}
	}

	return NewGraphRel(r.Variable, r.Types, r.Direction, length, source, target), nil
}

func buildWith(child LogicalPlan, w cypherast.WithClause) (LogicalPlan, error) {
	items := projectionItems(w.Items)
	sort := sortItems(w.OrderBy)
	return NewWithClause(child, items, w.Distinct, w.Where, sort, w.Skip, w.Limit), nil
}

func buildReturn(child LogicalPlan, r cypherast.ReturnClause) (LogicalPlan, error) {
	var plan LogicalPlan = &Projection{Child: child, Items: projectionItems(r.Items), Distinct: r.Distinct}
	if len(r.OrderBy) > 0 {
		plan = &OrderBy{Child: plan, Items: sortItems(r.OrderBy)}
	}
	if r.Skip != nil {
		plan = &Skip{Child: plan, Count: r.Skip}
	}
	if r.Limit != nil {
		plan = &Limit{Child: plan, Count: r.Limit}
	}
	return plan, nil
}

func projectionItems(items []cypherast.ProjectionItem) []ProjectionItem {
	out := make([]ProjectionItem, len(items))
	for i, it := range items {
		out[i] = ProjectionItem{Expr: it.Expr, Alias: it.Alias, IsStar: it.IsStar}
	}
	return out
}

func sortItems(items []cypherast.SortItem) []SortItem {
	out := make([]SortItem, len(items))
	for i, it := range items {
		out[i] = SortItem{Expr: it.Expr, Descending: it.Descending}
	}
	return out
}
