// Package renderplan is §4.4: a flat SQL intermediate representation built
// bottom-up from a finalized logicalplan.LogicalPlan. It has no knowledge of
// Cypher syntax beyond the cypherast.Expression values it carries through
// unchanged from the logical plan; sqlemit turns it into text.
package renderplan

import (
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

// RenderPlan is a query in flat-CTE form: zero or more named CTEs, each
// either a plain Select or (for variable-length paths) a RecursiveSelect,
// followed by the Select that reads the final result.
type RenderPlan struct {
	Ctes  []*Cte
	Final *Select
}

// HasRecursion reports whether any CTE is recursive, which determines
// whether the emitter needs a WITH RECURSIVE prelude.
func (p *RenderPlan) HasRecursion() bool {
	for _, c := range p.Ctes {
		if c.Recursive {
			return true
		}
	}
	return false
}

// CteBody is the sealed sum type of what a Cte's body can be.
type CteBody interface {
	cteBody()
}

// Cte is one named common table expression.
type Cte struct {
	Name      string
	Recursive bool
	Body      CteBody
}

// FromItem names the table or CTE a Select reads from.
type FromItem struct {
	Database string
	Table    string
	Alias    string

	// Final requests ClickHouse's FINAL modifier, needed to see the
	// post-merge view of a MergeTree-family table with a dedup/aggregation
	// engine (ReplacingMergeTree, SummingMergeTree, ...).
	Final bool
}

// SelectColumn is one projected "expr [AS alias]" entry.
type SelectColumn struct {
	Expr  cypherast.Expression
	Alias string
}

// Join is one materialized JOIN clause against an already-built FROM.
// ExtraOn carries additional AND'd conditions beyond the single equality
// GraphJoinInference records directly: polymorphic discriminator equality,
// compiled relationship constraints, and cross-pattern correlation
// predicates all append here rather than displacing the primary condition.
type Join struct {
	Kind       logicalplan.JoinKind
	TableOrCte string
	Alias      string
	Final      bool

	OnLeftAlias string
	OnLeftCol   string
	OnRightCol  string

	ExtraOn []cypherast.Expression
}

// ArrayJoinClause renders an UNWIND as ClickHouse's native ARRAY JOIN,
// turning a list-valued expression into one row per element without a
// subquery.
type ArrayJoinClause struct {
	Expr  cypherast.Expression
	Alias string
	Left  bool // LEFT ARRAY JOIN: keep the zero-element-list row
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr       cypherast.Expression
	Descending bool
}

// Select is a non-recursive SELECT body.
type Select struct {
	Distinct  bool
	Columns   []SelectColumn
	From      FromItem
	Joins     []Join
	ArrayJoin *ArrayJoinClause

	Where   cypherast.Expression
	GroupBy []cypherast.Expression
	Having  cypherast.Expression
	OrderBy []OrderItem
	Limit   cypherast.Expression
	Skip    cypherast.Expression

	// UnionWith holds sibling branches of a UNION/UNION ALL; when non-empty,
	// this Select is rendered as the first arm and UnionAll controls the
	// combinator between every arm.
	UnionWith []*Select
	UnionAll  bool
}

func (*Select) cteBody() {}

// RecursiveSelect is a WITH RECURSIVE CTE body: a non-recursive base case,
// a recursive case that reads from the CTE being defined (by Name), and an
// optional filter applied once to the materialized union of both, per the
// base/recursive/final-filter structure graphTraversalPlanning (§4.3 pass
// 11) designs a VlpScan around.
type RecursiveSelect struct {
	Base      *Select
	Recursive *Select

	// FinalFilter is applied in the outer Select that reads this CTE, not
	// inside the recursion itself (so it runs once per path, not once per
	// hop). The render-plan builder attaches it directly to that outer
	// Select's Where instead of storing it here when there's a natural
	// consumer; it is kept here only as a fallback for a CTE that is the
	// plan's final output with no further Select wrapping it.
	FinalFilter cypherast.Expression
}

func (*RecursiveSelect) cteBody() {}
