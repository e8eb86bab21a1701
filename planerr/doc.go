// Package planerr defines the five planning-error kinds a failed analyzer
// pass reports: SchemaError, ValidationError, InferenceError,
// ResolutionError, InternalError. Each wraps a diag.Issue carrying the
// offending Cypher fragment or alias and the pass name that detected it;
// none recovers automatically, and the first failing pass aborts planning.
package planerr
