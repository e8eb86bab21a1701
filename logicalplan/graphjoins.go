package logicalplan

import "github.com/genezhang/clickgraph/cypherast"

// JoinKind distinguishes an INNER join from a LEFT join (used for OPTIONAL
// MATCH and for the optional side of a traversal anchored elsewhere).
type JoinKind uint8

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

func (k JoinKind) String() string {
	if k == LeftJoin {
		return "LEFT"
	}
	return "INNER"
}

// Join is one materialized JOIN clause: the table or CTE being joined in,
// and the ON condition relating it to an alias already in scope.
type Join struct {
	Kind        JoinKind
	TableOrCte  string
	Alias       string
	OnLeftCol   string
	OnLeftAlias string
	OnRightCol  string
}

// GraphJoins wraps a block of node/relationship subplans that
// GraphJoinInference will turn into a materialized JOIN chain. The Joins
// slice starts empty and is filled in by that pass; it may still be empty
// at render time for a single-scan pattern, in which case the render-plan
// builder derives JOINs lazily from Children instead.
type GraphJoins struct {
	ChildPlans           []LogicalPlan
	Joins                []Join
	OptionalAliases      map[string]bool
	CorrelationPredicates []cypherast.Expression

	sealed bool
}

// NewGraphJoins wraps the per-pattern subplans of one comma-joined MATCH
// block, ready for JOIN inference.
func NewGraphJoins(children []LogicalPlan) *GraphJoins {
	return &GraphJoins{
		ChildPlans:      children,
		OptionalAliases: make(map[string]bool),
	}
}

func (j *GraphJoins) Op() string              { return "GraphJoins" }
func (j *GraphJoins) Children() []LogicalPlan { return j.ChildPlans }
func (*GraphJoins) logicalPlan()              {}

// Seal marks the node immutable.
func (j *GraphJoins) Seal() { j.sealed = true }

// IsSealed reports whether Seal has been called.
func (j *GraphJoins) IsSealed() bool { return j.sealed }

// SetJoins installs the materialized JOIN list computed by
// GraphJoinInference.
func (j *GraphJoins) SetJoins(joins []Join) {
	if j.sealed {
		panic("logicalplan: cannot mutate sealed GraphJoins")
	}
	j.Joins = joins
}

// MarkOptional records that alias belongs to an OPTIONAL MATCH and must be
// rendered through a LEFT JOIN rather than appearing in FROM.
func (j *GraphJoins) MarkOptional(alias string) {
	if j.sealed {
		panic("logicalplan: cannot mutate sealed GraphJoins")
	}
	if j.OptionalAliases == nil {
		j.OptionalAliases = make(map[string]bool)
	}
	j.OptionalAliases[alias] = true
}

// AddCorrelationPredicate records a cross-pattern WHERE predicate that
// CartesianJoinExtraction turned into a JOIN condition.
func (j *GraphJoins) AddCorrelationPredicate(pred cypherast.Expression) {
	if j.sealed {
		panic("logicalplan: cannot mutate sealed GraphJoins")
	}
	j.CorrelationPredicates = append(j.CorrelationPredicates, pred)
}
