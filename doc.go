// Package clickgraph translates openCypher graph queries into SQL for
// ClickHouse-family columnar stores.
//
// A schema catalog describes how relational tables present a graph: node
// labels map to tables, relationship types map to tables or FK columns. A
// parsed Cypher query is lowered through a logical plan, a multi-pass
// analyzer, a flat render plan, and finally a SQL emitter, producing a single
// SQL string with a flat CTE list and at most one WITH RECURSIVE prelude.
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no dependencies outside this tier):
//	  - location: Source positions, spans, and canonical paths
//	  - diag: Structured diagnostics with stable error codes
//	  - immutable: Read-only wrappers for safe data sharing
//
//	Core library tier:
//	  - catalog: Schema catalog loading, indexing, pattern-analysis context
//	  - cypherast: Minimal AST contract consumed from an external parser
//	  - exprlang: Scalar expression AST and parser for SQL expressions
//	  - logicalplan: Sum-type plan nodes produced from a Cypher AST
//	  - analyzer: Multi-pass pipeline resolving the logical plan
//	  - renderplan: Flat SQL intermediate representation
//	  - sqlemit: SQL string serialization
//	  - idcodec: 53-bit node ID encoding with an append-only label registry
//	  - querycache: LRU cache of compiled plans keyed by query text and schema
//	  - planerr: Typed error wrappers over diag.Issue
//
// # Entry Points
//
// Schema loading:
//
//	import "github.com/genezhang/clickgraph/catalog/load"
//
//	schema, result := load.LoadFile(ctx, "path/to/schema.yaml")
//	if result.HasErrors() {
//	    // I/O, YAML, or catalog validation errors; schema is nil
//	}
//
// Query translation:
//
//	import (
//	    "github.com/genezhang/clickgraph/analyzer"
//	    "github.com/genezhang/clickgraph/logicalplan"
//	)
//
//	lp, err := logicalplan.Build(cypherAST)
//	plan, planCtx, err := analyzer.Run(ctx, lp, schema, analyzer.DefaultConfig())
//	if err != nil {
//	    // Unresolved labels, ambiguous relationships, cancelled context, etc.
//	}
//
// Rendering to SQL:
//
//	import (
//	    "github.com/genezhang/clickgraph/renderplan"
//	    "github.com/genezhang/clickgraph/sqlemit"
//	)
//
//	rp, err := renderplan.Build(ctx, plan, schema, planCtx)
//	sql, err := sqlemit.Emit(rp)
//
// # Subpackages
//
// See the individual package documentation for detailed usage:
//
//   - [github.com/genezhang/clickgraph/diag]: Structured diagnostics
//   - [github.com/genezhang/clickgraph/location]: Source location tracking
//   - [github.com/genezhang/clickgraph/immutable]: Read-only data wrappers
//   - [github.com/genezhang/clickgraph/catalog]: Graph schema catalog
//   - [github.com/genezhang/clickgraph/catalog/load]: Catalog file loading
//   - [github.com/genezhang/clickgraph/catalog/catalogbuild]: Programmatic catalog building
//   - [github.com/genezhang/clickgraph/cypherast]: External Cypher AST contract
//   - [github.com/genezhang/clickgraph/exprlang]: Scalar expression language
//   - [github.com/genezhang/clickgraph/logicalplan]: Logical query plan
//   - [github.com/genezhang/clickgraph/analyzer]: Plan analysis passes
//   - [github.com/genezhang/clickgraph/renderplan]: Flat SQL IR
//   - [github.com/genezhang/clickgraph/sqlemit]: SQL string emission
//   - [github.com/genezhang/clickgraph/idcodec]: Node ID encoding
//   - [github.com/genezhang/clickgraph/querycache]: Compiled plan cache
//   - [github.com/genezhang/clickgraph/planerr]: Typed plan errors
package clickgraph
