package logicalplan

import (
	"slices"

	"github.com/genezhang/clickgraph/cypherast"
)

// LengthRange mirrors cypherast.LengthRange; kept as its own type so
// logicalplan does not require every consumer to reach back into cypherast
// for a value it owns throughout analysis.
type LengthRange struct {
	MinHops int
	MaxHops *int // nil = unbounded
}

// GraphRel is an unresolved (or partially resolved) relationship pattern.
//
// LeftConnection and RightConnection are ALWAYS source and target
// respectively, regardless of surface syntax: the logical plan builder
// normalizes "(a)-[r]->(b)" and "(b)<-[r]-(a)" to the same
// LeftConnection=a/RightConnection=b shape before any analyzer pass runs
// (invariant 2, §8.1).
type GraphRel struct {
	Alias     string
	Types     []string // nil = untyped
	Direction cypherast.Direction
	Length    *LengthRange // nil = exactly one hop

	LeftConnection  string
	RightConnection string

	IsOptional       bool
	AnchorConnection string // set by GraphJoinInference for OPTIONAL MATCH

	// ShortestPath and AllShortestPaths mirror the enclosing cypherast.Pattern's
	// wrapping; GraphTraversalPlanning (pass 11) reads these off a variable-
	// length GraphRel to decide how the resulting VlpScan's CTE is wrapped.
	ShortestPath     bool
	AllShortestPaths bool

	WherePredicate cypherast.Expression // filters placed on this edge by FilterTagging
	CteReferences  []string             // populated by CteReferencePopulator

	sealed bool
}

// NewGraphRel creates a GraphRel with normalized source/target connections.
func NewGraphRel(alias string, types []string, direction cypherast.Direction, length *LengthRange, left, right string) *GraphRel {
	return &GraphRel{
		Alias:           alias,
		Types:           slices.Clone(types),
		Direction:       direction,
		Length:          length,
		LeftConnection:  left,
		RightConnection: right,
	}
}

func (r *GraphRel) Op() string              { return "GraphRel" }
func (r *GraphRel) Children() []LogicalPlan { return nil }
func (*GraphRel) logicalPlan()              {}

// IsVariableLength reports whether this relationship carries a "*" hop
// range rather than matching exactly one edge.
func (r *GraphRel) IsVariableLength() bool { return r.Length != nil }

// IsTyped reports whether this relationship has a resolved, non-empty type
// set.
func (r *GraphRel) IsTyped() bool { return len(r.Types) > 0 }

// Seal marks the node immutable.
func (r *GraphRel) Seal() { r.sealed = true }

// IsSealed reports whether Seal has been called.
func (r *GraphRel) IsSealed() bool { return r.sealed }

// SetTypes narrows (or assigns) the candidate relationship-type set.
func (r *GraphRel) SetTypes(types []string) {
	if r.sealed {
		panic("logicalplan: cannot mutate sealed GraphRel")
	}
	r.Types = slices.Clone(types)
}

// SetAnchorConnection records which endpoint a prior required MATCH already
// bound, so the render-plan builder knows which side is the LEFT JOIN.
func (r *GraphRel) SetAnchorConnection(alias string) {
	if r.sealed {
		panic("logicalplan: cannot mutate sealed GraphRel")
	}
	r.AnchorConnection = alias
}

// SetWherePredicate attaches a filter FilterTagging placed directly on this
// edge (e.g. a VLP recursive-case guard).
func (r *GraphRel) SetWherePredicate(pred cypherast.Expression) {
	if r.sealed {
		panic("logicalplan: cannot mutate sealed GraphRel")
	}
	r.WherePredicate = pred
}

// AddCteReference records a CTE name this relationship's resolution depends
// on (set by CteReferencePopulator once GraphTraversalPlanning has emitted
// the relevant CTE).
func (r *GraphRel) AddCteReference(cteName string) {
	if r.sealed {
		panic("logicalplan: cannot mutate sealed GraphRel")
	}
	if slices.Contains(r.CteReferences, cteName) {
		return
	}
	r.CteReferences = append(r.CteReferences, cteName)
}
