package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "https://gus.my.salesforce.com", config.Gus.InstanceHost)
	assert.Equal(t, "PlatformCLI", config.Gus.ClientID)
	assert.Equal(t, "http://localhost:1717/OauthRedirect", config.Gus.RedirectURI)
	assert.Equal(t, 1717, config.Gus.CallbackPort)
	assert.Equal(t, "v59.0", config.Gus.APIVersion)
	assert.Equal(t, "5m", config.Gus.LoginTimeout)
	assert.Equal(t, 8, config.Gus.MaxAgeHours)
	assert.False(t, config.IsProduction())
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "https://gus.my.salesforce.com", config.Gus.InstanceHost)
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, "rogo.toml", `
environment = "production"

[gus]
instance_host = "https://sandbox.my.salesforce.com"
max_age_hours = 2

[queries]
mine = "SELECT Id FROM ADM_Work__c WHERE Assignee__c = '${me}'"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, "https://sandbox.my.salesforce.com", config.Gus.InstanceHost)
	assert.Equal(t, 2, config.Gus.MaxAgeHours)

	// Untouched fields keep defaults
	assert.Equal(t, "PlatformCLI", config.Gus.ClientID)

	// Saved query templates ride along in the [queries] table
	assert.Equal(t, "SELECT Id FROM ADM_Work__c WHERE Assignee__c = '${me}'", config.Queries["mine"])
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfigFile(t, "first.toml", `
[gus]
instance_host = "https://first.my.salesforce.com"
callback_port = 2000
`)
	second := writeConfigFile(t, "second.toml", `
[gus]
instance_host = "https://second.my.salesforce.com"
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, "https://second.my.salesforce.com", config.Gus.InstanceHost)
	// Set by the first file, untouched by the second
	assert.Equal(t, 2000, config.Gus.CallbackPort)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("ROGO_GUS_INSTANCE_HOST", "https://env.my.salesforce.com")
	t.Setenv("ROGO_GUS_CALLBACK_PORT", "9090")
	t.Setenv("ROGO_LOG_LEVEL", "debug")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "https://env.my.salesforce.com", config.Gus.InstanceHost)
	assert.Equal(t, 9090, config.Gus.CallbackPort)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromFiles_ValidationFailure(t *testing.T) {
	path := writeConfigFile(t, "rogo.toml", `
[gus]
redirect_uri = "not a url"
`)

	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, "https://flag.my.salesforce.com", 4242)
	assert.Equal(t, "https://flag.my.salesforce.com", config.Gus.InstanceHost)
	assert.Equal(t, 4242, config.Gus.CallbackPort)

	// Zero values leave the config untouched
	ApplyFlagOverrides(config, "", 0)
	assert.Equal(t, "https://flag.my.salesforce.com", config.Gus.InstanceHost)
	assert.Equal(t, 4242, config.Gus.CallbackPort)
}
