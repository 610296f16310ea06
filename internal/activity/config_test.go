package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, github, anthropic, ollama string) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", github)
	t.Setenv("ANTHROPIC_API_KEY", anthropic)
	t.Setenv("OLLAMA_HOST", ollama)
}

func TestValidateConfigAllPresent(t *testing.T) {
	setEnv(t, "ghp_x", "sk-ant-x", "http://ollama:11434")
	assert.Empty(t, ValidateConfig())
}

func TestValidateConfigMissingRequired(t *testing.T) {
	setEnv(t, "", "", "")

	issues := ValidateConfig()
	require.Len(t, issues, 3)

	byName := map[string]ConfigIssue{}
	for _, issue := range issues {
		byName[issue.Name] = issue
	}
	assert.True(t, byName["GITHUB_TOKEN"].Required)
	assert.True(t, byName["ANTHROPIC_API_KEY"].Required)
	assert.False(t, byName["OLLAMA_HOST"].Required)
}

func TestCheckConfigWarnMode(t *testing.T) {
	setEnv(t, "", "", "")
	assert.NoError(t, CheckConfig(ConfigModeWarn))
}

func TestCheckConfigRequireMode(t *testing.T) {
	setEnv(t, "", "sk-ant-x", "http://ollama:11434")

	err := CheckConfig(ConfigModeRequire)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestCheckConfigRequireModeOptionalMissing(t *testing.T) {
	setEnv(t, "ghp_x", "sk-ant-x", "")
	assert.NoError(t, CheckConfig(ConfigModeRequire))
}
