package renderplan

import (
	"context"
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// builder carries the mutable state threaded through one Build call: the
// schema and PlanCtx the analyzer left behind (read-only from here on), the
// render plan being assembled, and a counter for synthesizing CTE names the
// analyzer didn't already assign one (Union, CartesianProduct factors).
type builder struct {
	ctx     context.Context
	schema  *catalog.GraphSchema
	planCtx *logicalplan.PlanCtx

	result *RenderPlan
	cteSeq int

	// vlpFinalFilter holds, per VlpScan alias, the hop-count-lower-bound and
	// schema-constraint condition to apply where the CTE is finally read,
	// since both are about the whole materialized path rather than any one
	// recursive step (see RecursiveSelect.FinalFilter).
	vlpFinalFilter map[string]cypherast.Expression
}

// Build walks a finalized logical plan bottom-up and produces its flat
// render-plan form. schema and planCtx must be the same values the analyzer
// pipeline that produced plan used: AliasLabel/RequiredProperties lookups
// here assume the bindings they recorded are still valid.
func Build(ctx context.Context, plan logicalplan.LogicalPlan, schema *catalog.GraphSchema, planCtx *logicalplan.PlanCtx) (*RenderPlan, error) {
	b := &builder{
		ctx:            ctx,
		schema:         schema,
		planCtx:        planCtx,
		result:         &RenderPlan{},
		vlpFinalFilter: make(map[string]cypherast.Expression),
	}
	sel, err := b.build(plan)
	if err != nil {
		return nil, err
	}
	b.result.Final = sel
	return b.result, nil
}

func (b *builder) build(p logicalplan.LogicalPlan) (*Select, error) {
	switch n := p.(type) {
	case logicalplan.Empty:
		return b.buildEmpty(n), nil
	case logicalplan.ViewScan:
		return &Select{From: b.fromItemForScan(n)}, nil
	case *logicalplan.GraphJoins:
		return b.buildGraphJoins(n)
	case *logicalplan.CartesianProduct:
		return b.buildCartesian(n)
	case *logicalplan.Filter:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		pred, err := b.resolveNodeIDMarkers(n.Predicate)
		if err != nil {
			return nil, err
		}
		sel.Where = andExpr(sel.Where, pred)
		return sel, nil
	case *logicalplan.Projection:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		cols, err := b.buildColumns(n.Items)
		if err != nil {
			return nil, err
		}
		sel.Distinct = n.Distinct
		sel.Columns = cols
		return sel, nil
	case *logicalplan.GroupBy:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		keys := make([]cypherast.Expression, len(n.Keys))
		for i, k := range n.Keys {
			resolved, err := b.resolveNodeIDMarkers(k)
			if err != nil {
				return nil, err
			}
			keys[i] = resolved
		}
		sel.GroupBy = keys
		return sel, nil
	case *logicalplan.OrderBy:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		items, err := b.buildOrderItems(n.Items)
		if err != nil {
			return nil, err
		}
		sel.OrderBy = items
		return sel, nil
	case *logicalplan.Limit:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		sel.Limit = n.Count
		return sel, nil
	case *logicalplan.Skip:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		sel.Skip = n.Count
		return sel, nil
	case *logicalplan.Unwind:
		sel, err := b.build(n.Child)
		if err != nil {
			return nil, err
		}
		expr, err := b.resolveNodeIDMarkers(n.Expr)
		if err != nil {
			return nil, err
		}
		sel.ArrayJoin = &ArrayJoinClause{Expr: expr, Alias: n.As}
		return sel, nil
	case *logicalplan.WithClause:
		return b.buildWithClause(n)
	case *logicalplan.Union:
		return b.buildUnion(n)
	case logicalplan.Call:
		return nil, planerr.InternalError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
			fmt.Sprintf("CALL %s has no render-plan lowering defined", n.ProcedureName)).
			WithPass("render_plan_build", n.ProcedureName).Build())
	default:
		return nil, planerr.InternalError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
			fmt.Sprintf("unhandled logical plan node %q", p.Op())).
			WithPass("render_plan_build", p.Op()).Build())
	}
}

func (b *builder) buildColumns(items []logicalplan.ProjectionItem) ([]SelectColumn, error) {
	cols := make([]SelectColumn, len(items))
	for i, item := range items {
		if item.IsStar {
			cols[i] = SelectColumn{}
			continue
		}
		expr, err := b.resolveNodeIDMarkers(item.Expr)
		if err != nil {
			return nil, err
		}
		cols[i] = SelectColumn{Expr: expr, Alias: item.Alias}
	}
	return cols, nil
}

func (b *builder) buildOrderItems(items []logicalplan.SortItem) ([]OrderItem, error) {
	out := make([]OrderItem, len(items))
	for i, it := range items {
		expr, err := b.resolveNodeIDMarkers(it.Expr)
		if err != nil {
			return nil, err
		}
		out[i] = OrderItem{Expr: expr, Descending: it.Descending}
	}
	return out, nil
}

func (b *builder) buildEmpty(e logicalplan.Empty) *Select {
	// ClickHouse's system.one always has exactly one row; an always-false
	// WHERE against it is the idiomatic "this query returns nothing" shape
	// with no real table dependency.
	return &Select{
		From:  FromItem{Database: "system", Table: "one", Alias: "_empty"},
		Where: cypherast.Literal{Val: false},
	}
}

func (b *builder) fromItemForScan(v logicalplan.ViewScan) FromItem {
	return FromItem{Database: v.Database, Table: v.Table, Alias: v.Alias, Final: b.engineFinalForLabel(v.Label)}
}

func (b *builder) engineFinalForLabel(label string) bool {
	node, err := b.schema.Node(catalog.Label(label))
	if err != nil {
		return false
	}
	eng := node.Engine()
	return eng != nil && eng.Kind == catalog.EngineMergeTree
}

func (b *builder) engineFinalForRel(rel *catalog.RelationshipSchema) bool {
	eng := rel.Engine()
	return eng != nil && eng.Kind == catalog.EngineMergeTree
}

// buildGraphJoins turns one already-inferred JOIN chain into a single
// Select: whichever scan or VlpScan never appears as a Join's target alias
// is the FROM anchor, and every logicalplan.Join carries an already-resolved
// table/CTE name straight through (GraphJoinInference and
// GraphTraversalPlanning did that resolution at analysis time).
func (b *builder) buildGraphJoins(gj *logicalplan.GraphJoins) (*Select, error) {
	scans := map[string]logicalplan.ViewScan{}
	vlps := map[string]*logicalplan.VlpScan{}
	var edgePredicates []cypherast.Expression

	for _, c := range gj.ChildPlans {
		switch v := c.(type) {
		case logicalplan.ViewScan:
			scans[v.Alias] = v
		case *logicalplan.VlpScan:
			vlps[v.Alias] = v
			if err := b.buildVlpCte(v); err != nil {
				return nil, err
			}
		case *logicalplan.GraphRel:
			if v.WherePredicate != nil {
				edgePredicates = append(edgePredicates, v.WherePredicate)
			}
		}
	}

	joinTarget := map[string]bool{}
	for _, j := range gj.Joins {
		joinTarget[j.Alias] = true
	}

	var anchor *FromItem
	for _, c := range gj.ChildPlans {
		var alias string
		var item FromItem
		switch v := c.(type) {
		case logicalplan.ViewScan:
			alias, item = v.Alias, b.fromItemForScan(v)
		case *logicalplan.VlpScan:
			alias, item = v.Alias, FromItem{Table: v.Alias, Alias: v.Alias}
		default:
			continue
		}
		if joinTarget[alias] {
			continue
		}
		anchor = &item
		break
	}
	if anchor == nil {
		return nil, planerr.InternalError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
			"GraphJoins has no scan or VlpScan alias left unbound as a FROM anchor").
			WithPass("render_plan_build", "").Build())
	}

	sel := &Select{From: *anchor}
	for _, j := range gj.Joins {
		sel.Joins = append(sel.Joins, Join{
			Kind:        j.Kind,
			TableOrCte:  j.TableOrCte,
			Alias:       j.Alias,
			Final:       b.finalForJoinAlias(j.Alias, scans),
			OnLeftAlias: j.OnLeftAlias,
			OnLeftCol:   j.OnLeftCol,
			OnRightCol:  j.OnRightCol,
		})
	}

	for _, pred := range edgePredicates {
		resolved, err := b.resolveNodeIDMarkers(pred)
		if err != nil {
			return nil, err
		}
		sel.Where = andExpr(sel.Where, resolved)
	}
	for _, pred := range gj.CorrelationPredicates {
		resolved, err := b.resolveNodeIDMarkers(pred)
		if err != nil {
			return nil, err
		}
		sel.Where = andExpr(sel.Where, resolved)
	}
	for alias := range vlps {
		sel.Where = andExpr(sel.Where, b.vlpFinalFilter[alias])
	}
	for _, vlp := range vlps {
		applyVlpPathWrapping(sel, vlp)
	}
	return sel, nil
}

// applyVlpPathWrapping wraps the Select reading a shortestPath()/
// allShortestPaths()-flagged VlpScan's CTE per §4.3 pass 11: shortestPath
// keeps only the globally shortest materialized path, allShortestPaths keeps
// every path tied for shortest. ShortestPath takes precedence if somehow
// both are set (the parser never produces both for the same pattern).
func applyVlpPathWrapping(sel *Select, vlp *logicalplan.VlpScan) {
	switch {
	case vlp.ShortestPath:
		sel.OrderBy = append(sel.OrderBy, OrderItem{Expr: col(vlp.Alias, logicalplan.VlpHopCountColumn)})
		sel.Limit = cypherast.Literal{Val: int64(1)}
	case vlp.AllShortestPaths:
		sel.Where = andExpr(sel.Where, cypherast.BinaryOp{
			Op_:  "=",
			Left: col(vlp.Alias, logicalplan.VlpHopCountColumn),
			Right: cypherast.FunctionCall{
				Name: ScalarMinSubqueryFunc,
				Args: []cypherast.Expression{col(vlp.Alias, logicalplan.VlpHopCountColumn)},
			},
		})
	}
}

// ScalarMinSubqueryFunc is a sentinel FunctionCall name sqlemit recognizes
// and renders as "(SELECT MIN(col) FROM table)" rather than a bare MIN(...)
// call; it never appears in a parsed query, renderplan is the only producer.
const ScalarMinSubqueryFunc = "__scalarMinSubquery"

func (b *builder) finalForJoinAlias(alias string, scans map[string]logicalplan.ViewScan) bool {
	scan, ok := scans[alias]
	if !ok {
		return false
	}
	return b.engineFinalForLabel(scan.Label)
}

// buildVlpCte materializes a VlpScan into a WITH RECURSIVE CTE: the base
// case is every direct edge of the traversed type, the recursive case
// extends a materialized path by one more such edge, and any minimum-hop or
// schema-constraint requirement is deferred to vlpFinalFilter for whatever
// Select ends up reading the CTE by its alias (vlpEndpointJoins, in
// GraphTraversalPlanning, always references that alias directly, so it
// doubles as the CTE's name).
func (b *builder) buildVlpCte(vlp *logicalplan.VlpScan) error {
	if len(vlp.Types) != 1 {
		return planerr.InternalError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
			fmt.Sprintf("variable-length relationship %q must resolve to exactly one type, got %d", vlp.Alias, len(vlp.Types))).
			WithPass("render_plan_build", vlp.Alias).Build())
	}
	leftLabel, ok := b.planCtx.AliasLabel(vlp.LeftConnection)
	if !ok {
		return planerr.ResolutionError(diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE,
			fmt.Sprintf("no label registered for alias %q", vlp.LeftConnection)).
			WithPass("render_plan_build", vlp.LeftConnection).
			WithDetail(diag.DetailKeyAlias, vlp.LeftConnection).Build())
	}
	rightLabel, ok := b.planCtx.AliasLabel(vlp.RightConnection)
	if !ok {
		return planerr.ResolutionError(diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE,
			fmt.Sprintf("no label registered for alias %q", vlp.RightConnection)).
			WithPass("render_plan_build", vlp.RightConnection).
			WithDetail(diag.DetailKeyAlias, vlp.RightConnection).Build())
	}
	rel, err := b.schema.Rel(catalog.RelType(vlp.Types[0]), catalog.Label(leftLabel), catalog.Label(rightLabel))
	if err != nil {
		return err
	}
	fromCol, toCol := rel.FromID().Column(), rel.ToID().Column()
	table := edgeTableName(rel)

	edgeAlias := vlp.Alias + "_e"
	prevAlias := vlp.Alias + "_prev"

	base := &Select{
		Columns: []SelectColumn{
			{Expr: col(edgeAlias, fromCol), Alias: logicalplan.VlpFromIDColumn},
			{Expr: col(edgeAlias, toCol), Alias: logicalplan.VlpToIDColumn},
			{Expr: cypherast.Literal{Val: int64(1)}, Alias: logicalplan.VlpHopCountColumn},
		},
		From: FromItem{Database: rel.Database(), Table: table, Alias: edgeAlias, Final: b.engineFinalForRel(rel)},
	}

	recursive := &Select{
		Columns: []SelectColumn{
			{Expr: col(prevAlias, logicalplan.VlpFromIDColumn), Alias: logicalplan.VlpFromIDColumn},
			{Expr: col(edgeAlias, toCol), Alias: logicalplan.VlpToIDColumn},
			{Expr: cypherast.BinaryOp{Op_: "+", Left: col(prevAlias, logicalplan.VlpHopCountColumn), Right: cypherast.Literal{Val: int64(1)}},
				Alias: logicalplan.VlpHopCountColumn},
		},
		From: FromItem{Table: vlp.Alias, Alias: prevAlias},
		Joins: []Join{{
			Kind: logicalplan.InnerJoin, TableOrCte: table, Alias: edgeAlias, Final: b.engineFinalForRel(rel),
			OnLeftAlias: prevAlias, OnLeftCol: logicalplan.VlpToIDColumn, OnRightCol: fromCol,
		}},
	}
	if vlp.Length.MaxHops != nil {
		recursive.Where = cypherast.BinaryOp{Op_: "<", Left: col(prevAlias, logicalplan.VlpHopCountColumn), Right: cypherast.Literal{Val: int64(*vlp.Length.MaxHops)}}
	}

	// Path uniqueness: a declared edge_id lets the recursive arm guard
	// against revisiting the same edge, so a cyclic graph doesn't produce
	// an infinite or duplicated path. No edge_id means no guard is emitted
	// at all, matching §4.3 pass 11's "enforce ... using edge_id arrays"
	// wording, which is conditioned on the schema declaring one.
	if rel.HasEdgeID() {
		edgeIDExpr := edgeIDValue(edgeAlias, rel.EdgeID())
		base.Columns = append(base.Columns, SelectColumn{
			Expr:  cypherast.FunctionCall{Name: "array", Args: []cypherast.Expression{edgeIDExpr}},
			Alias: logicalplan.VlpPathEdgesColumn,
		})
		recursive.Columns = append(recursive.Columns, SelectColumn{
			Expr: cypherast.FunctionCall{Name: "arrayPushBack", Args: []cypherast.Expression{
				col(prevAlias, logicalplan.VlpPathEdgesColumn), edgeIDExpr,
			}},
			Alias: logicalplan.VlpPathEdgesColumn,
		})
		guard := cypherast.UnaryOp{Op_: "NOT", Operand: cypherast.FunctionCall{Name: "has", Args: []cypherast.Expression{
			col(prevAlias, logicalplan.VlpPathEdgesColumn), edgeIDExpr,
		}}}
		recursive.Where = andExpr(recursive.Where, guard)
	}

	b.result.Ctes = append(b.result.Ctes, &Cte{Name: vlp.Alias, Recursive: true, Body: &RecursiveSelect{Base: base, Recursive: recursive}})

	var filter cypherast.Expression
	if vlp.Length.MinHops > 1 {
		filter = cypherast.BinaryOp{Op_: ">=", Left: col(vlp.Alias, logicalplan.VlpHopCountColumn), Right: cypherast.Literal{Val: int64(vlp.Length.MinHops)}}
	}
	if vlp.WherePredicate != nil {
		resolved, err := b.resolveNodeIDMarkers(vlp.WherePredicate)
		if err != nil {
			return err
		}
		filter = andExpr(filter, resolved)
	}
	if filter != nil {
		b.vlpFinalFilter[vlp.Alias] = filter
	}
	return nil
}

func col(alias, property string) cypherast.Expression {
	return cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: alias}, Property: property}
}

// edgeIDValue builds the per-edge value path uniqueness compares against:
// a single column directly, or (the composite fallback §4.3 pass 11 names)
// a ClickHouse tuple() of every declared edge_id column.
func edgeIDValue(alias string, edgeID catalog.JoinColumns) cypherast.Expression {
	if edgeID.Kind() == catalog.NodeIDSingle {
		return col(alias, edgeID.Column())
	}
	return cypherast.FunctionCall{Name: "tuple", Args: columnRefs(cypherast.Identifier{Name: alias}, edgeID.Columns())}
}

func edgeTableName(rel *catalog.RelationshipSchema) string {
	if rel.Database() != "" {
		return rel.Database() + "." + rel.Table()
	}
	return rel.Table()
}

// buildWithClause materializes Child's Select as a CTE shaped by the WITH
// clause's own projection/filter/sort/limit, and returns a fresh Select
// that simply reads every exported column back out of it — the forward-
// resolution rule already guarantees every downstream access was rewritten
// against this shape by VariableResolver/CteReferencePopulator.
func (b *builder) buildWithClause(w *logicalplan.WithClause) (*Select, error) {
	sel, err := b.build(w.Child)
	if err != nil {
		return nil, err
	}
	cols, err := b.buildColumns(w.Items)
	if err != nil {
		return nil, err
	}
	sel.Columns = cols
	sel.Distinct = w.Distinct
	if len(w.Sort) > 0 {
		items, err := b.buildOrderItems(w.Sort)
		if err != nil {
			return nil, err
		}
		sel.OrderBy = items
	}
	sel.Skip = w.SkipCount
	sel.Limit = w.LimitCount
	if w.Where != nil {
		resolved, err := b.resolveNodeIDMarkers(w.Where)
		if err != nil {
			return nil, err
		}
		if len(sel.GroupBy) > 0 {
			sel.Having = andExpr(sel.Having, resolved)
		} else {
			sel.Where = andExpr(sel.Where, resolved)
		}
	}

	name := w.CteName
	if name == "" {
		name = b.nextCteName("with")
	}
	b.result.Ctes = append(b.result.Ctes, &Cte{Name: name, Body: sel})
	return &Select{From: FromItem{Table: name, Alias: name}}, nil
}

func (b *builder) buildUnion(u *logicalplan.Union) (*Select, error) {
	if len(u.Branches) == 0 {
		return nil, planerr.InternalError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
			"Union has no branches").WithPass("render_plan_build", "").Build())
	}
	first, err := b.build(u.Branches[0])
	if err != nil {
		return nil, err
	}
	for _, branch := range u.Branches[1:] {
		sel, err := b.build(branch)
		if err != nil {
			return nil, err
		}
		first.UnionWith = append(first.UnionWith, sel)
	}
	first.UnionAll = u.All

	name := b.nextCteName("union")
	b.result.Ctes = append(b.result.Ctes, &Cte{Name: name, Body: first})
	return &Select{From: FromItem{Table: name, Alias: name}}, nil
}

// buildCartesian materializes every factor past the first as its own CTE
// and cross-joins it in (Join.OnLeftCol == "" renders as an unconditioned
// CROSS JOIN): by the time this runs, CartesianJoinExtraction has already
// pulled any cross-pattern WHERE equality out into a correlation JOIN on
// whichever GraphJoins factor carried it, so what's left genuinely has no
// join condition to offer.
func (b *builder) buildCartesian(c *logicalplan.CartesianProduct) (*Select, error) {
	if len(c.Factors) == 0 {
		return nil, planerr.InternalError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
			"CartesianProduct has no factors").WithPass("render_plan_build", "").Build())
	}
	base, err := b.build(c.Factors[0])
	if err != nil {
		return nil, err
	}
	for _, factor := range c.Factors[1:] {
		sel, err := b.build(factor)
		if err != nil {
			return nil, err
		}
		name := b.nextCteName("cart")
		b.result.Ctes = append(b.result.Ctes, &Cte{Name: name, Body: sel})
		base.Joins = append(base.Joins, Join{Kind: logicalplan.InnerJoin, TableOrCte: name, Alias: name})
	}
	return base, nil
}

func (b *builder) nextCteName(prefix string) string {
	b.cteSeq++
	return fmt.Sprintf("%s_%d", prefix, b.cteSeq)
}

func andExpr(a, bExpr cypherast.Expression) cypherast.Expression {
	if a == nil {
		return bExpr
	}
	if bExpr == nil {
		return a
	}
	return cypherast.BinaryOp{Op_: "AND", Left: a, Right: bExpr}
}
