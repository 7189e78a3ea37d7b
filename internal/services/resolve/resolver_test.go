package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidates = []string{"Alpha", "Beta", "Alpha Beta", "Gamma"}

func TestName_ExactMatchWinsOverSubstring(t *testing.T) {
	// "alpha" is a substring of both "Alpha" and "Alpha Beta", but the
	// case-insensitive exact match short-circuits before the substring scan.
	resolved, err := Name("project", "alpha", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", resolved)
}

func TestName_SoleSubstringMatch(t *testing.T) {
	resolved, err := Name("project", "Gam", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", resolved)
}

func TestName_Ambiguous(t *testing.T) {
	_, err := Name("project", "eta", candidates)
	require.Error(t, err)

	var ambiguous *AmbiguousError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"Beta", "Alpha Beta"}, ambiguous.Matches)
	assert.NotContains(t, ambiguous.Matches, "Gamma")
	assert.Contains(t, err.Error(), "Ambiguous project \"eta\"")
	assert.Contains(t, err.Error(), "Beta, Alpha Beta")
}

func TestName_NotFound(t *testing.T) {
	_, err := Name("project", "xyz", candidates)
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, candidates, notFound.Candidates)
	assert.Contains(t, err.Error(), "No project found matching \"xyz\"")
	assert.Contains(t, err.Error(), "Alpha, Beta, Alpha Beta, Gamma")
}

func TestName_CandidateOrderPreserved(t *testing.T) {
	// The enumeration must follow the candidate set's original order, not a
	// sorted order.
	unsorted := []string{"Zulu Team", "Alpha Team", "Mike Team"}
	_, err := Name("team", "Team", unsorted)

	var ambiguous *AmbiguousError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, unsorted, ambiguous.Matches)
}

func TestName_EmptyCandidates(t *testing.T) {
	_, err := Name("tag", "anything", nil)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Empty(t, notFound.Candidates)
}

func TestName_ExactMatchKeepsOriginalCasing(t *testing.T) {
	resolved, err := Name("tag", "ERRANDS", []string{"Errands", "Home"})
	require.NoError(t, err)
	assert.Equal(t, "Errands", resolved)
}
