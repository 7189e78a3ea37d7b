// Package common provides shared utilities for configuration, logging, and
// query token replacement.
//
// The ${token} syntax allows saved query templates to reference values that
// are only known at execution time (the caller's identity, their team, their
// product tag).
//
// Example:
//   Input:  "WHERE Assignee__c = '${me}'"
//   Tokens: {"me": "005xx000001Sv6d"}
//   Output: "WHERE Assignee__c = '005xx000001Sv6d'"
//
// Tokens without a supplied value are left verbatim, which allows partial
// substitution over multiple passes. Unknown ${...} tokens are never touched.
package common

import (
	"regexp"

	"github.com/ternarybob/arbor"
)

// queryTokenPattern matches ${token-name} references in query templates.
// Allows alphanumeric characters, hyphens, and underscores.
var queryTokenPattern = regexp.MustCompile(`\$\{([a-zA-Z0-9_-]+)\}`)

// ReplaceQueryTokens replaces every ${token} reference in the input with the
// corresponding value from the token map. References with no supplied value
// are left unchanged and logged at debug level.
func ReplaceQueryTokens(input string, tokens map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	logUnresolvedTokens(input, tokens, logger)

	return queryTokenPattern.ReplaceAllStringFunc(input, func(match string) string {
		// Strip the "${" prefix and "}" suffix
		name := match[2 : len(match)-1]

		if value, exists := tokens[name]; exists {
			return value
		}

		// Not supplied - leave verbatim for a later pass
		return match
	})
}

// QueryTokenNames returns the distinct token names referenced by a template,
// in first-appearance order.
func QueryTokenNames(input string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range queryTokenPattern.FindAllStringSubmatch(input, -1) {
		if len(match) > 1 && !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}

func logUnresolvedTokens(input string, tokens map[string]string, logger arbor.ILogger) {
	if logger == nil {
		return
	}
	for _, match := range queryTokenPattern.FindAllStringSubmatch(input, -1) {
		if len(match) > 1 {
			if _, exists := tokens[match[1]]; !exists {
				logger.Debug().
					Str("reference", match[0]).
					Str("token", match[1]).
					Msg("Query token left unresolved")
			}
		}
	}
}
