package logicalplan

import "github.com/genezhang/clickgraph/cypherast"

// ProjectionItem is one "expr [AS alias]" entry, or the "*" wildcard before
// ProjectionTagging expands it.
type ProjectionItem struct {
	Expr   cypherast.Expression
	Alias  string
	IsStar bool
}

// SortItem is one ORDER BY entry.
type SortItem struct {
	Expr       cypherast.Expression
	Descending bool
}

// Filter applies a WHERE predicate above Child. FilterTagging rewrites the
// Cypher-level property accesses inside Predicate into resolved column
// references as it runs; the node shape doesn't change, only the
// expression tree it carries.
type Filter struct {
	Child     LogicalPlan
	Predicate cypherast.Expression
}

func (f *Filter) Op() string              { return "Filter" }
func (f *Filter) Children() []LogicalPlan { return []LogicalPlan{f.Child} }
func (*Filter) logicalPlan()              {}

// Projection is a RETURN (or the post-filter projection of a WithClause
// split into its own node for uniform rendering).
type Projection struct {
	Child    LogicalPlan
	Items    []ProjectionItem
	Distinct bool
}

func (p *Projection) Op() string              { return "Projection" }
func (p *Projection) Children() []LogicalPlan { return []LogicalPlan{p.Child} }
func (*Projection) logicalPlan()              {}

// GroupBy is synthesized by GroupByBuilding when a Projection contains
// aggregate expressions: Keys are the non-aggregate projection expressions,
// which become the GROUP BY list.
type GroupBy struct {
	Child LogicalPlan
	Keys  []cypherast.Expression
}

func (g *GroupBy) Op() string              { return "GroupBy" }
func (g *GroupBy) Children() []LogicalPlan { return []LogicalPlan{g.Child} }
func (*GroupBy) logicalPlan()              {}

// OrderBy sorts Child's rows.
type OrderBy struct {
	Child LogicalPlan
	Items []SortItem
}

func (o *OrderBy) Op() string              { return "OrderBy" }
func (o *OrderBy) Children() []LogicalPlan { return []LogicalPlan{o.Child} }
func (*OrderBy) logicalPlan()              {}

// Limit caps the row count.
type Limit struct {
	Child LogicalPlan
	Count cypherast.Expression
}

func (l *Limit) Op() string              { return "Limit" }
func (l *Limit) Children() []LogicalPlan { return []LogicalPlan{l.Child} }
func (*Limit) logicalPlan()              {}

// Skip discards a leading row count.
type Skip struct {
	Child LogicalPlan
	Count cypherast.Expression
}

func (s *Skip) Op() string              { return "Skip" }
func (s *Skip) Children() []LogicalPlan { return []LogicalPlan{s.Child} }
func (*Skip) logicalPlan()              {}

// Unwind expands a list-valued expression into one row per element. Once
// UnwindTupleEnricher runs, TupleArity records the positional width of a
// collect()-produced tuple so UnwindPropertyRewriter can later rewrite
// "alias.prop" into positional tuple access.
type Unwind struct {
	Child      LogicalPlan
	Expr       cypherast.Expression
	As         string
	TupleArity int // 0 = not a tuple unwind
}

func (u *Unwind) Op() string              { return "Unwind" }
func (u *Unwind) Children() []LogicalPlan { return []LogicalPlan{u.Child} }
func (*Unwind) logicalPlan()              {}

// WithClause is a projection barrier. Once CTE schema resolution runs, CteName
// is the name the render-plan builder will give the materialized CTE;
// downstream passes reference Child's output only through that CTE's
// output columns (the forward-resolution rule, §4.3 pass 13).
type WithClause struct {
	Child    LogicalPlan
	Items    []ProjectionItem
	Distinct bool
	Where    cypherast.Expression
	Sort     []SortItem
	SkipCount  cypherast.Expression
	LimitCount cypherast.Expression
	CteName  string

	sealed bool
}

func NewWithClause(child LogicalPlan, items []ProjectionItem, distinct bool, where cypherast.Expression, sort []SortItem, skip, limit cypherast.Expression) *WithClause {
	return &WithClause{
		Child:      child,
		Items:      items,
		Distinct:   distinct,
		Where:      where,
		Sort:       sort,
		SkipCount:  skip,
		LimitCount: limit,
	}
}

func (w *WithClause) Op() string              { return "WithClause" }
func (w *WithClause) Children() []LogicalPlan { return []LogicalPlan{w.Child} }
func (*WithClause) logicalPlan()              {}

// Seal marks the node immutable.
func (w *WithClause) Seal() { w.sealed = true }

// IsSealed reports whether Seal has been called.
func (w *WithClause) IsSealed() bool { return w.sealed }

// SetCteName assigns the materialized CTE name. Called once by the CTE
// schema resolver pass.
func (w *WithClause) SetCteName(name string) {
	if w.sealed {
		panic("logicalplan: cannot mutate sealed WithClause")
	}
	w.CteName = name
}
