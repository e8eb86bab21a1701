// Package trace provides optional debug logging helpers for the clickgraph module.
//
// This package is an internal utility for developer observability. It is distinct
// from [diag.Issue] (user-facing content issues) and error returns (system failures).
//
// # Internal Package
//
// This package is internal to the clickgraph module and is not importable by external
// consumers per Go's internal/ package semantics. Its one caller is the analyzer
// pipeline, which opens one [Op] per pass.
//
// # Design Principles
//
//   - Near-zero cost when disabled: a nil logger short-circuits every call.
//   - Stdlib only: uses [log/slog], preserving dependency hygiene for an
//     ambient concern that has no natural ecosystem library home.
//   - Logger injection: every call takes the logger as an argument; nothing is
//     stored in globals.
//
// # Usage Patterns
//
//   - [Begin]/[Op.End]: operation boundaries (one analyzer pass), with
//     automatic duration measurement.
//   - [Debug], [Info], [Warn], [Error]: simple, pre-computed attributes.
//   - [DebugLazy], [InfoLazy], [WarnLazy], [ErrorLazy]: attributes computed
//     only when logging is enabled.
//
// # Context Handling
//
// All logging functions accept a context.Context and pass it through to the
// underlying [log/slog.Logger]. The request ID carried via [WithRequestID] is
// attached to every [Op] start/end log line.
//
// # Operation Names
//
// Operation names follow the format clickgraph.<package>.<operation>; the
// analyzer names each pass clickgraph.analyzer.<pass name>.
//
// Operation names are implementation details and may change without notice.
package trace
