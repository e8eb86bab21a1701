package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/catalog/patterncontext"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// graphJoinInference is §4.3 pass 6: turn a GraphJoins block's resolved
// ViewScan leaves and GraphRel edges into a materialized JOIN chain.
//
// Implemented: Traditional and FkEdgeJoin dispatch for single-hop
// relationships processed in pattern order, anchor selection (the first
// alias with no prior binding becomes the FROM table), and OPTIONAL MATCH
// anchoring via GraphRel.AnchorConnection. Relationship patterns are
// assumed already ordered so each one has at least one endpoint bound by
// the time it is visited — true for every chain and star pattern a single
// comma-separated MATCH produces. A general dependency-graph topological
// sort over arbitrarily reordered relationship lists (needed only for
// pathological hand-built plans, not for anything logicalplan.Build
// produces) is not implemented. SingleTableScan, EdgeToEdge, and
// CoupledSameRow dispatch (denormalized/coupled-edge layouts) are deferred:
// Traditional/FkEdgeJoin cover every scenario this planner currently
// targets, and patterncontext.Store already documents why those strategies
// are unreachable from its own Join computation.
func (r *runner) graphJoinInference() error {
	var firstErr error
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		if firstErr != nil {
			return p
		}
		gj, ok := p.(*logicalplan.GraphJoins)
		if !ok {
			return p
		}
		resolved, err := r.inferJoins(gj)
		if err != nil {
			firstErr = err
			return p
		}
		return resolved
	})
	return firstErr
}

func (r *runner) inferJoins(gj *logicalplan.GraphJoins) (*logicalplan.GraphJoins, error) {
	scans := map[string]logicalplan.ViewScan{}
	var rels []*logicalplan.GraphRel
	for _, c := range gj.ChildPlans {
		switch v := c.(type) {
		case logicalplan.ViewScan:
			scans[v.Alias] = v
		case *logicalplan.GraphRel:
			rels = append(rels, v)
		}
	}
	if len(rels) == 0 {
		return gj, nil
	}

	bound := map[string]bool{}
	var joins []logicalplan.Join

	for _, rel := range rels {
		if rel.IsVariableLength() {
			// GraphTraversalPlanning (pass 11) resolves these into either a
			// chained-JOIN unroll or a VlpScan CTE; this pass leaves them
			// untouched rather than guessing at a fixed JOIN shape.
			continue
		}
		if len(rel.Types) != 1 {
			return nil, planerr.ValidationError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
				"relationship must resolve to exactly one type before JOIN inference").
				WithPass("graph_join_inference", rel.Alias).Build())
		}
		leftScan, leftOk := scans[rel.LeftConnection]
		rightScan, rightOk := scans[rel.RightConnection]
		if !leftOk || !rightOk {
			return nil, planerr.InternalError(newIssue("graph_join_inference",
				fmt.Sprintf("relationship %q references an alias with no resolved scan", rel.Alias)))
		}

		patCtx, err := r.planCtx.Patterns.For(catalog.Label(leftScan.Label), catalog.RelType(rel.Types[0]), catalog.Label(rightScan.Label))
		if err != nil {
			return nil, planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_MISSING_RELATIONSHIP,
				fmt.Sprintf("no relationship %q between %q and %q", rel.Types[0], leftScan.Label, rightScan.Label)).
				WithPass("graph_join_inference", rel.Alias).
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

		joins = append(joins, joinsForRel(rel, leftScan, rightScan, leftIDCol, rightIDCol, patCtx, leftBound, rightBound, kind)...)
		bound[rel.LeftConnection] = true
		bound[rel.RightConnection] = true
	}

	out := *gj
	out.SetJoins(joins)
	return &out, nil
}

func (r *runner) nodeIDColumn(label string) (string, error) {
	schema, err := r.schema.Node(catalog.Label(label))
	if err != nil {
		return "", planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
			fmt.Sprintf("unknown node label %q", label)).
			WithPass("graph_join_inference", "").
			WithDetail(diag.DetailKeyLabel, label).Build())
	}
	return schema.NodeID().Column(), nil
}

// joinsForRel emits the Traditional or FkEdgeJoin JOIN shape for one
// relationship, given which endpoints are already bound, per §4.3 pass 6's
// four-case dispatch.
func joinsForRel(rel *logicalplan.GraphRel, left, right logicalplan.ViewScan, leftIDCol, rightIDCol string, patCtx *patterncontext.Context, leftBound, rightBound bool, kind logicalplan.JoinKind) []logicalplan.Join {
	edgeAlias := rel.Alias
	leftJoinCol, rightJoinCol := patCtx.Rel.FromID().Column(), patCtx.Rel.ToID().Column()

	if patCtx.Rel.IsFkEdge() {
		// FK edges have no separate edge table: the FK column lives directly
		// on one of the node tables, so only the node JOIN is needed.
		switch {
		case rightBound && !leftBound:
			return []logicalplan.Join{
				{Kind: kind, TableOrCte: left.Table, Alias: left.Alias,
					OnLeftAlias: right.Alias, OnLeftCol: rightJoinCol, OnRightCol: leftIDCol},
			}
		case leftBound && rightBound:
			return nil
		default:
			return []logicalplan.Join{
				{Kind: kind, TableOrCte: right.Table, Alias: right.Alias,
					OnLeftAlias: left.Alias, OnLeftCol: leftIDCol, OnRightCol: rightJoinCol},
			}
		}
	}

	// Every join in the chain, not just the terminal one, must carry kind:
	// an OPTIONAL MATCH relationship needs the edge-table join itself to be
	// a LEFT JOIN too, or a bound row with no matching edge is dropped
	// before the terminal node join ever gets a chance to preserve it.
	switch {
	case !leftBound && rightBound:
		return []logicalplan.Join{
			{Kind: kind, TableOrCte: edgeTable(patCtx), Alias: edgeAlias,
				OnLeftAlias: right.Alias, OnLeftCol: rightIDCol, OnRightCol: rightJoinCol},
			{Kind: kind, TableOrCte: left.Table, Alias: left.Alias,
				OnLeftAlias: edgeAlias, OnLeftCol: leftJoinCol, OnRightCol: leftIDCol},
		}
	case leftBound && rightBound:
		return []logicalplan.Join{
			{Kind: kind, TableOrCte: edgeTable(patCtx), Alias: edgeAlias,
				OnLeftAlias: left.Alias, OnLeftCol: leftIDCol, OnRightCol: leftJoinCol},
		}
	default:
		return []logicalplan.Join{
			{Kind: kind, TableOrCte: edgeTable(patCtx), Alias: edgeAlias,
				OnLeftAlias: left.Alias, OnLeftCol: leftIDCol, OnRightCol: leftJoinCol},
			{Kind: kind, TableOrCte: right.Table, Alias: right.Alias,
				OnLeftAlias: edgeAlias, OnLeftCol: rightJoinCol, OnRightCol: rightIDCol},
		}
	}
}

func edgeTable(patCtx *patterncontext.Context) string {
	if patCtx.Rel.Database() != "" {
		return patCtx.Rel.Database() + "." + patCtx.Rel.Table()
	}
	return patCtx.Rel.Table()
}
