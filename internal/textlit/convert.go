// Package textlit converts between SQL string literal syntax and Go strings.
//
// SQL escapes an embedded quote by doubling it ('' inside a '...'-delimited
// literal) rather than with a backslash, so these helpers are purpose-built
// for SQL rather than borrowed from a general-purpose string-literal
// converter. The shape is a pair of Quote/Unquote helpers shared by the
// expression parser and the SQL emitter.
package textlit

import (
	"fmt"
	"strings"
)

// QuoteSQLString renders s as a single-quoted SQL string literal, doubling any
// embedded single quotes per standard SQL escaping.
func QuoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// UnquoteSQLString parses a single-quoted SQL string literal (as it appears in
// a schema filter or WHERE predicate source string) back to its Go value.
// Doubled single quotes ('') decode to one literal quote. Returns an error if
// s is not a properly single-quoted, properly terminated literal.
func UnquoteSQLString(s string) (string, error) {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", fmt.Errorf("textlit: not a single-quoted SQL literal: %q", s)
	}
	inner := s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\'' {
			if i+1 < len(inner) && inner[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			return "", fmt.Errorf("textlit: unescaped quote in SQL literal: %q", s)
		}
		b.WriteByte(inner[i])
	}
	return b.String(), nil
}
