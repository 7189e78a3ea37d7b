package gus

import "strings"

// soslReserved is the reserved character set for SOSL FIND clauses. The
// asterisk is deliberately absent: it is the SOSL wildcard and callers append
// it intentionally for prefix search.
const soslReserved = `?&|!{}[]()^~:\"'+-=`

// EscapeSOQL escapes a string for embedding inside a SOQL string literal by
// doubling every single quote. Required at every call site that concatenates
// external strings into a query.
func EscapeSOQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeSOSL backslash-escapes every SOSL-reserved character in a search
// term. The wildcard `*` passes through untouched.
func EscapeSOSL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(soslReserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
