// Package cypherast defines the Cypher query AST contract this module
// consumes from an external parser.
//
// This package holds no parsing logic: a Cypher lexer/parser is an external
// collaborator (see the purpose-and-scope boundary this module draws around
// itself). What lives here is the shape that collaborator is expected to
// hand the logical plan builder — clauses, patterns, and a small scalar
// expression AST — so the rest of this module has a stable, versioned
// contract to program against regardless of which parser produces it.
//
// # Sum types
//
// [Clause], [PatternElement], and [Expression] are closed sum types: each
// has an unexported marker method so only the variants declared in this
// package can implement it. A switch over any of the three should end with
// a default arm that panics on an unhandled variant, per this module's
// exhaustive-dispatch convention.
package cypherast
