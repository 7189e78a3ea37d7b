package common

import (
	"fmt"
	"time"
)

// DefaultCredentialMaxAge is the freshness window for a cached access token.
// Tokens older than this force a new interactive login.
const DefaultCredentialMaxAge = 8 * time.Hour

// StalenessResult contains the result of a credential staleness check.
type StalenessResult struct {
	// IsStale indicates whether the cached credential must be refreshed.
	IsStale bool
	// ExpiresAt is when the credential crosses the freshness threshold.
	ExpiresAt time.Time
	// Reason provides a human-readable explanation for the decision.
	Reason string
}

// CheckCredentialStaleness determines whether a cached credential collected
// at collectedAt is still usable at time now. Staleness is binary on the age
// threshold; there is no partial or forced-refresh mode.
func CheckCredentialStaleness(collectedAt time.Time, now time.Time, maxAge time.Duration) StalenessResult {
	if maxAge <= 0 {
		maxAge = DefaultCredentialMaxAge
	}

	now = now.UTC()
	collectedAt = collectedAt.UTC()

	if collectedAt.IsZero() {
		return StalenessResult{
			IsStale: true,
			Reason:  "no collection timestamp on cached credential, assuming stale",
		}
	}

	expiresAt := collectedAt.Add(maxAge)
	age := now.Sub(collectedAt)

	if age >= maxAge {
		return StalenessResult{
			IsStale:   true,
			ExpiresAt: expiresAt,
			Reason: fmt.Sprintf(
				"cached credential collected %s is older than the %s freshness window",
				collectedAt.Format(time.RFC3339),
				maxAge,
			),
		}
	}

	return StalenessResult{
		IsStale:   false,
		ExpiresAt: expiresAt,
		Reason: fmt.Sprintf(
			"cached credential is fresh (collected %s, expires %s)",
			collectedAt.Format(time.RFC3339),
			expiresAt.Format(time.RFC3339),
		),
	}
}
