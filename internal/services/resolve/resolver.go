// Package resolve implements name resolution against a candidate list. The
// same protocol serves OmniFocus project/tag lookup and GUS epic/product-tag
// disambiguation: every call either returns exactly one resolved name or
// fails with an error informative enough for a human to correct their query.
package resolve

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no candidate matched the query. It carries the
// full candidate list, in original order, for the caller-facing diagnostic.
type NotFoundError struct {
	Kind       string // "project", "tag", "epic", ...
	Query      string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s found matching %q. Available %ss: %s",
		e.Kind, e.Query, e.Kind, strings.Join(e.Candidates, ", "))
}

// AmbiguousError reports that more than one candidate matched the query. It
// carries only the matching subset, in original order.
type AmbiguousError struct {
	Kind    string
	Query   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("Ambiguous %s %q. Multiple %ss match: %s",
		e.Kind, e.Query, e.Kind, strings.Join(e.Matches, ", "))
}

// Name resolves query against candidates:
//
//  1. Case-insensitive exact match wins immediately and returns the
//     candidate's original casing.
//  2. Otherwise a case-insensitive substring scan collects matches: exactly
//     one match resolves, zero fails with NotFoundError, two or more fail
//     with AmbiguousError.
//
// Candidate order is preserved in both error enumerations so messages stay
// consistent across runs.
func Name(kind, query string, candidates []string) (string, error) {
	lowered := strings.ToLower(query)

	for _, candidate := range candidates {
		if strings.ToLower(candidate) == lowered {
			return candidate, nil
		}
	}

	var matches []string
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), lowered) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", &NotFoundError{Kind: kind, Query: query, Candidates: candidates}
	default:
		return "", &AmbiguousError{Kind: kind, Query: query, Matches: matches}
	}
}
