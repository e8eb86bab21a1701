package catalog

import "fmt"

// Label identifies a node type in the graph schema, e.g. "Person".
type Label string

// AnyLabel is the sentinel used by a polymorphic relationship endpoint that
// matches any node label connected through the discriminator columns rather
// than a single fixed label.
const AnyLabel Label = "$any"

// IsAny reports whether l is the polymorphic wildcard sentinel.
func (l Label) IsAny() bool {
	return l == AnyLabel
}

// RelType identifies a relationship type in the graph schema, e.g. "KNOWS".
type RelType string

// CompositeKey uniquely identifies a relationship definition: the same
// RelType may connect different node-label pairs, and each pairing is a
// distinct edge definition with its own table, join columns, and mappings.
//
// String format: "TYPE::FROM_LABEL::TO_LABEL". This is the only valid map
// key for the relationships table; type-only lookups go through the
// schema's rel_type_index instead.
type CompositeKey string

// NewCompositeKey builds the composite key for a relationship type and its
// endpoint labels.
func NewCompositeKey(relType RelType, from, to Label) CompositeKey {
	return CompositeKey(fmt.Sprintf("%s::%s::%s", relType, from, to))
}

// Parts splits a composite key back into its relationship type and endpoint
// labels.
func (k CompositeKey) Parts() (relType RelType, from, to Label, ok bool) {
	s := string(k)
	i := indexSep(s, 0)
	if i < 0 {
		return "", "", "", false
	}
	j := indexSep(s, i+2)
	if j < 0 {
		return "", "", "", false
	}
	return RelType(s[:i]), Label(s[i+2 : j]), Label(s[j+2:]), true
}

// indexSep finds the next "::" separator at or after start, returning the
// index of the first ':'.
func indexSep(s string, start int) int {
	for i := start; i+1 < len(s); i++ {
		if s[i] == ':' && s[i+1] == ':' {
			return i
		}
	}
	return -1
}
