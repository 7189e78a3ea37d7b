package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/rogo/internal/common"
)

func TestSavedQueryNames_Sorted(t *testing.T) {
	names := savedQueryNames(map[string]string{
		"zulu":  "SELECT Id FROM ADM_Work__c",
		"alpha": "SELECT Id FROM ADM_Epic__c",
		"mike":  "SELECT Id FROM ADM_Work__c WHERE Assignee__c = '${me}'",
	})
	assert.Equal(t, []string{"alpha", "mike", "zulu"}, names)
}

func TestRunSaved_UnknownNameEnumeratesSorted(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Queries = map[string]string{
		"zulu":  "SELECT Id FROM ADM_Work__c",
		"alpha": "SELECT Id FROM ADM_Epic__c",
	}
	r := &runtime{config: config}

	err := runSaved(context.Background(), r, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no saved query named "nope"`)
	assert.Contains(t, err.Error(), "available: alpha, zulu")
}
