// Package logicalplan defines the intermediate representation the analyzer
// pipeline transforms: a sum type of plan nodes built from a cypherast.Query
// plus a mutable PlanCtx carrying cross-pass analysis state.
//
// # Sum type
//
// [LogicalPlan] is closed to this package via the unexported logicalPlan
// marker method; GraphNode, GraphRel, GraphJoins, CartesianProduct, Filter,
// Projection, GroupBy, OrderBy, Limit, Skip, Unwind, WithClause, Union,
// ViewScan, Call, and Empty are the only variants. A switch over
// LogicalPlan should end with a default arm that panics, so an unhandled
// variant fails the first test that exercises it rather than compiling
// silently.
//
// # Ownership and mutation
//
// Plan nodes are shared, immutable trees: a pass that wants to change a
// node builds a replacement and reuses the unchanged child pointers rather
// than mutating in place. The exception is the small set of fields that
// accumulate incrementally across passes within one analysis run (label
// candidates on GraphNode/GraphRel, the JOIN list on GraphJoins, CTE
// references on GraphRel) — those use the teacher's sealed+panicking-setter
// idiom: mutable until Seal is called, after which every setter panics.
// PlanSanitization (the last pass) seals the whole tree before handing it to
// the render-plan builder.
package logicalplan
