package logicalplan

import (
	"slices"

	"github.com/genezhang/clickgraph/cypherast"
)

// VlpScan replaces a variable-length GraphRel once GraphTraversalPlanning
// (§4.3 pass 11) decides it needs a recursive CTE rather than a chain of
// ordinary JOINs. It behaves like a CTE-backed scan: the render-plan builder
// emits one `WITH RECURSIVE` body per VlpScan, exposing synthetic
// from_id/to_id/hop_count columns that GraphJoinInference-shaped Joins (see
// graphTraversalPlanning) reference exactly like any other CTE.
type VlpScan struct {
	Alias     string
	Types     []string // OR'd relationship types traversed at every hop
	Direction cypherast.Direction
	Length    LengthRange

	LeftConnection  string
	RightConnection string

	ShortestPath     bool
	AllShortestPaths bool

	WherePredicate cypherast.Expression
	CteReferences  []string

	sealed bool
}

// NewVlpScan creates a VlpScan from the GraphRel it replaces.
func NewVlpScan(alias string, types []string, direction cypherast.Direction, length LengthRange, left, right string, shortestPath, allShortestPaths bool) *VlpScan {
	return &VlpScan{
		Alias:            alias,
		Types:            slices.Clone(types),
		Direction:        direction,
		Length:           length,
		LeftConnection:   left,
		RightConnection:  right,
		ShortestPath:     shortestPath,
		AllShortestPaths: allShortestPaths,
	}
}

func (v *VlpScan) Op() string              { return "VlpScan" }
func (v *VlpScan) Children() []LogicalPlan { return nil }
func (*VlpScan) logicalPlan()              {}

// Seal marks the node immutable.
func (v *VlpScan) Seal() { v.sealed = true }

// IsSealed reports whether Seal has been called.
func (v *VlpScan) IsSealed() bool { return v.sealed }

// SetWherePredicate attaches a per-hop filter (e.g. a schema-level edge
// constraint) to be applied in the recursive case.
func (v *VlpScan) SetWherePredicate(pred cypherast.Expression) {
	if v.sealed {
		panic("logicalplan: cannot mutate sealed VlpScan")
	}
	v.WherePredicate = pred
}

// AddCteReference records a CTE name this traversal's base or recursive case
// reads from (e.g. when one endpoint is itself CTE-bound).
func (v *VlpScan) AddCteReference(cteName string) {
	if v.sealed {
		panic("logicalplan: cannot mutate sealed VlpScan")
	}
	if slices.Contains(v.CteReferences, cteName) {
		return
	}
	v.CteReferences = append(v.CteReferences, cteName)
}

// FromIDColumn and ToIDColumn are the fixed output column names a VlpScan's
// materialized CTE exposes for its two path endpoints, plus the hop counter
// used by shortestPath/allShortestPaths wrapping.
const (
	VlpFromIDColumn   = "from_id"
	VlpToIDColumn     = "to_id"
	VlpHopCountColumn = "hop_count"

	// VlpPathEdgesColumn carries the array of edge IDs traversed so far,
	// used by the recursive case's NOT has(...) guard to enforce that a
	// path never revisits the same edge (§4.3 pass 11). Only populated when
	// the traversed relationship declares an edge_id.
	VlpPathEdgesColumn = "path_edges"
)
