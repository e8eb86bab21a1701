package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/catalog/patterncontext"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// graphTraversalPlanning is §4.3 pass 11: resolve the variable-length
// GraphRel edges GraphJoinInference skipped over. An exact hop count
// ("*3") unrolls into a chain of ordinary edge-table JOINs, reusing
// GraphJoinInference's anchor-aware ON-condition shape one hop at a time.
// A range or unbounded count ("*1..3", "*2..", "*") has no fixed JOIN
// shape, so it replaces the GraphRel with a VlpScan: the render-plan
// builder turns that into a `WITH RECURSIVE` CTE, and this pass JOINs the
// CTE's from_id/to_id columns to the already-resolved endpoint scans the
// same way it would JOIN an edge table.
//
// Scope cuts: only single-type relationships ("*1..3", not "[:A|B*1..3]")
// are handled — multi-type VLPs would need per-type join columns unioned
// into one recursive case, deferred. FK-style edges (no separate edge
// table) always take the VlpScan path even at an exact hop count, since
// chaining FK joins across hops has no edge-table alias to hang
// intermediate hops on. Unlike GraphJoinInference's four-case endpoint
// dispatch, the VlpScan path always JOINs both endpoints rather than
// collapsing a both-already-bound pair into a single correlation JOIN.
func (r *runner) graphTraversalPlanning() error {
	var firstErr error
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		if firstErr != nil {
			return p
		}
		gj, ok := p.(*logicalplan.GraphJoins)
		if !ok {
			return p
		}
		resolved, err := r.planTraversals(gj)
		if err != nil {
			firstErr = err
			return p
		}
		return resolved
	})
	return firstErr
}

func (r *runner) planTraversals(gj *logicalplan.GraphJoins) (*logicalplan.GraphJoins, error) {
	scans := map[string]logicalplan.ViewScan{}
	for _, c := range gj.ChildPlans {
		if v, ok := c.(logicalplan.ViewScan); ok {
			scans[v.Alias] = v
		}
	}

	bound := map[string]bool{}
	for _, j := range gj.Joins {
		bound[j.Alias] = true
		bound[j.OnLeftAlias] = true
	}

	changed := false
	joins := append([]logicalplan.Join(nil), gj.Joins...)
	newChildren := make([]logicalplan.LogicalPlan, 0, len(gj.ChildPlans))

	for _, c := range gj.ChildPlans {
		rel, ok := c.(*logicalplan.GraphRel)
		if !ok || !rel.IsVariableLength() {
			newChildren = append(newChildren, c)
			continue
		}
		changed = true

		if len(rel.Types) != 1 {
			return nil, planerr.ValidationError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
				"variable-length relationship must resolve to exactly one type before traversal planning").
				WithPass("graph_traversal_planning", rel.Alias).Build())
		}
		leftScan, leftOk := scans[rel.LeftConnection]
		rightScan, rightOk := scans[rel.RightConnection]
		if !leftOk || !rightOk {
			return nil, planerr.InternalError(newIssue("graph_traversal_planning",
				fmt.Sprintf("variable-length relationship %q references an alias with no resolved scan", rel.Alias)))
		}
		patCtx, err := r.planCtx.Patterns.For(catalog.Label(leftScan.Label), catalog.RelType(rel.Types[0]), catalog.Label(rightScan.Label))
		if err != nil {
			return nil, planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_MISSING_RELATIONSHIP,
				fmt.Sprintf("no relationship %q between %q and %q", rel.Types[0], leftScan.Label, rightScan.Label)).
				WithPass("graph_traversal_planning", rel.Alias).
				WithDetail(diag.DetailKeyRelType, rel.Types[0]).
				WithDetail(diag.DetailKeyFromLabel, leftScan.Label).
				WithDetail(diag.DetailKeyToLabel, rightScan.Label).Build())
		}
		leftIDCol, err := r.nodeIDColumn(leftScan.Label)
		if err != nil {
			return nil, err
		}
		rightIDCol, err := r.nodeIDColumn(rightScan.Label)
		if err != nil {
			return nil, err
		}

		leftBound, rightBound := bound[rel.LeftConnection], bound[rel.RightConnection]
		kind := logicalplan.InnerJoin
		if rel.IsOptional {
			kind = logicalplan.LeftJoin
			if rel.AnchorConnection == "" {
				rel.AnchorConnection = rel.LeftConnection
			}
		}

		exact := rel.Length.MaxHops != nil && rel.Length.MinHops == *rel.Length.MaxHops &&
			rel.Length.MinHops > 0 && !patCtx.Rel.IsFkEdge()

		if exact {
			joins = append(joins, chainedHopJoins(rel, leftScan, rightScan, leftIDCol, rightIDCol, patCtx, leftBound, rightBound, kind)...)
		} else {
			vlp := logicalplan.NewVlpScan(rel.Alias, rel.Types, rel.Direction, *rel.Length,
				rel.LeftConnection, rel.RightConnection, rel.ShortestPath, rel.AllShortestPaths)
			vlp.WherePredicate = rel.WherePredicate
			for _, cteName := range rel.CteReferences {
				vlp.AddCteReference(cteName)
			}
			newChildren = append(newChildren, vlp)
			joins = append(joins, vlpEndpointJoins(vlp, leftScan, rightScan, leftIDCol, rightIDCol, kind)...)
		}
		bound[rel.LeftConnection] = true
		bound[rel.RightConnection] = true
	}

	if !changed {
		return gj, nil
	}
	out := *gj
	out.ChildPlans = newChildren
	out.SetJoins(joins)
	return &out, nil
}

// chainedHopJoins unrolls an exact hop count into N edge-table JOINs,
// chaining each hop's to_id into the next hop's from_id, following
// GraphJoinInference's left/right-bound dispatch for which end to start
// building the chain from.
func chainedHopJoins(rel *logicalplan.GraphRel, left, right logicalplan.ViewScan, leftIDCol, rightIDCol string, patCtx *patterncontext.Context, leftBound, rightBound bool, kind logicalplan.JoinKind) []logicalplan.Join {
	table := edgeTable(patCtx)
	fromCol, toCol := patCtx.Rel.FromID().Column(), patCtx.Rel.ToID().Column()
	hops := rel.Length.MinHops

	// kind applies to every join in the chain, not just the terminal one:
	// an OPTIONAL MATCH VLP needs every intermediate hop to be a LEFT JOIN
	// too, or a bound row with a too-short or missing path is dropped by
	// an inner hop before the terminal join ever sees it.
	var joins []logicalplan.Join
	if !leftBound && rightBound {
		prevAlias, prevCol := right.Alias, rightIDCol
		for i := hops; i >= 1; i-- {
			hopAlias := fmt.Sprintf("%s_hop%d", rel.Alias, i)
			joins = append(joins, logicalplan.Join{Kind: kind, TableOrCte: table, Alias: hopAlias,
				OnLeftAlias: prevAlias, OnLeftCol: prevCol, OnRightCol: toCol})
			prevAlias, prevCol = hopAlias, fromCol
		}
		joins = append(joins, logicalplan.Join{Kind: kind, TableOrCte: left.Table, Alias: left.Alias,
			OnLeftAlias: prevAlias, OnLeftCol: prevCol, OnRightCol: leftIDCol})
		return joins
	}

	prevAlias, prevCol := left.Alias, leftIDCol
	for i := 1; i <= hops; i++ {
		hopAlias := fmt.Sprintf("%s_hop%d", rel.Alias, i)
		joins = append(joins, logicalplan.Join{Kind: kind, TableOrCte: table, Alias: hopAlias,
			OnLeftAlias: prevAlias, OnLeftCol: prevCol, OnRightCol: fromCol})
		prevAlias, prevCol = hopAlias, toCol
	}
	joins = append(joins, logicalplan.Join{Kind: kind, TableOrCte: right.Table, Alias: right.Alias,
		OnLeftAlias: prevAlias, OnLeftCol: prevCol, OnRightCol: rightIDCol})
	return joins
}

// vlpEndpointJoins JOINs a VlpScan's synthetic from_id/to_id columns to its
// two resolved endpoint scans, the way a materialized CTE is joined
// anywhere else in the plan. Both joins carry kind: an OPTIONAL MATCH must
// keep an unmatched left endpoint row alive through the first join too, or
// the second join's LEFT JOIN never gets a row to preserve.
func vlpEndpointJoins(vlp *logicalplan.VlpScan, left, right logicalplan.ViewScan, leftIDCol, rightIDCol string, kind logicalplan.JoinKind) []logicalplan.Join {
	return []logicalplan.Join{
		{Kind: kind, TableOrCte: left.Table, Alias: left.Alias,
			OnLeftAlias: vlp.Alias, OnLeftCol: logicalplan.VlpFromIDColumn, OnRightCol: leftIDCol},
		{Kind: kind, TableOrCte: right.Table, Alias: right.Alias,
			OnLeftAlias: vlp.Alias, OnLeftCol: logicalplan.VlpToIDColumn, OnRightCol: rightIDCol},
	}
}
