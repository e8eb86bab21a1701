// Package patterncontext computes and caches the per-triple access and
// join strategy the analyzer needs for every (left node, edge, right node)
// combination a query pattern touches.
//
// This is the single analysis point GraphJoinInference, FilterTagging, and
// the render-plan builder all defer to rather than re-deriving "how is this
// edge physically stored" at each call site. A Store is built once per
// GraphSchema, computes a Context lazily on first request for a triple, and
// caches it; once the owning query's planning is done the Store is safe for
// concurrent read reuse across goroutines (queries never write to it after
// their own triples are resolved, and resolution itself is guarded by a
// mutex).
package patterncontext
