package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

// createTestLogger creates a logger for testing
func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func TestReplaceQueryTokens_Me(t *testing.T) {
	logger := createTestLogger()
	tokens := map[string]string{"me": "005xx000001Sv6d"}

	input := "WHERE Assignee__c = '${me}'"
	expected := "WHERE Assignee__c = '005xx000001Sv6d'"

	result := ReplaceQueryTokens(input, tokens, logger)
	assert.Equal(t, expected, result)
}

func TestReplaceQueryTokens_Multiple(t *testing.T) {
	logger := createTestLogger()
	tokens := map[string]string{
		"me":          "005xx",
		"team":        "Platform",
		"product_tag": "Core Services",
	}

	input := "Assignee__c='${me}' AND Team__c='${team}' AND Tag__c='${product_tag}'"
	expected := "Assignee__c='005xx' AND Team__c='Platform' AND Tag__c='Core Services'"

	result := ReplaceQueryTokens(input, tokens, logger)
	assert.Equal(t, expected, result)
}

func TestReplaceQueryTokens_MissingTokenLeftVerbatim(t *testing.T) {
	logger := createTestLogger()

	input := "x = ${unknown}"
	result := ReplaceQueryTokens(input, map[string]string{}, logger)
	assert.Equal(t, "x = ${unknown}", result)
}

func TestReplaceQueryTokens_PartialSubstitution(t *testing.T) {
	logger := createTestLogger()
	tokens := map[string]string{"me": "005xx"}

	input := "Assignee__c='${me}' AND Team__c='${team}'"
	expected := "Assignee__c='005xx' AND Team__c='${team}'"

	// First pass resolves ${me}, ${team} survives for a later pass
	result := ReplaceQueryTokens(input, tokens, logger)
	assert.Equal(t, expected, result)

	// Second pass completes the substitution
	result = ReplaceQueryTokens(result, map[string]string{"team": "Platform"}, logger)
	assert.Equal(t, "Assignee__c='005xx' AND Team__c='Platform'", result)
}

func TestReplaceQueryTokens_EmptyInput(t *testing.T) {
	logger := createTestLogger()
	result := ReplaceQueryTokens("", map[string]string{"me": "x"}, logger)
	assert.Equal(t, "", result)
}

func TestReplaceQueryTokens_NoReferences(t *testing.T) {
	logger := createTestLogger()
	input := "SELECT Id FROM ADM_Work__c"
	result := ReplaceQueryTokens(input, map[string]string{"me": "x"}, logger)
	assert.Equal(t, input, result)
}

func TestReplaceQueryTokens_InvalidSyntaxUntouched(t *testing.T) {
	logger := createTestLogger()

	// Space in token name - doesn't match the token pattern
	input := "x = ${not a token}"
	result := ReplaceQueryTokens(input, map[string]string{"not a token": "y"}, logger)
	assert.Equal(t, input, result)
}

func TestQueryTokenNames(t *testing.T) {
	input := "a=${me} b=${team} c=${me}"
	names := QueryTokenNames(input)
	assert.Equal(t, []string{"me", "team"}, names)
}
