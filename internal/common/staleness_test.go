package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckCredentialStaleness_Fresh(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	collected := now.Add(-1 * time.Hour)

	result := CheckCredentialStaleness(collected, now, 8*time.Hour)

	assert.False(t, result.IsStale)
	assert.Equal(t, collected.Add(8*time.Hour), result.ExpiresAt)
	assert.Contains(t, result.Reason, "fresh")
}

func TestCheckCredentialStaleness_Stale(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	collected := now.Add(-10 * time.Hour)

	result := CheckCredentialStaleness(collected, now, 8*time.Hour)

	assert.True(t, result.IsStale)
	assert.Contains(t, result.Reason, "older than")
}

func TestCheckCredentialStaleness_ExactBoundaryIsStale(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	collected := now.Add(-8 * time.Hour)

	result := CheckCredentialStaleness(collected, now, 8*time.Hour)

	assert.True(t, result.IsStale)
}

func TestCheckCredentialStaleness_ZeroTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	result := CheckCredentialStaleness(time.Time{}, now, 8*time.Hour)

	assert.True(t, result.IsStale)
	assert.Contains(t, result.Reason, "no collection timestamp")
}

func TestCheckCredentialStaleness_DefaultMaxAge(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	collected := now.Add(-7 * time.Hour)

	// maxAge <= 0 falls back to the 8 hour default
	result := CheckCredentialStaleness(collected, now, 0)

	assert.False(t, result.IsStale)
}
