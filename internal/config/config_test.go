package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MODEL_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("AGENTS_CONFIG", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "gemini-key", cfg.Model.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
	assert.Equal(t, 90*time.Second, cfg.Agent.Timeout)
	assert.Equal(t, 5, cfg.Agent.MaxSteps)
	assert.Empty(t, cfg.Profiles)
}

func TestLoadRejectsZeroMaxSteps(t *testing.T) {
	t.Setenv("AGENT_MAX_STEPS", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.toml")
	body := `
[agents.CO2]
model = "gemini-1.5-pro"
instructions = "Prefer rail factors."
max_steps = 3

[agents.route]
model = "gemini-2.0-flash"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("AGENTS_CONFIG", path)
	cfg, err := Load()
	require.NoError(t, err)

	co2 := cfg.Profile("co2")
	assert.Equal(t, "gemini-1.5-pro", co2.Model)
	assert.Equal(t, "Prefer rail factors.", co2.Instructions)
	assert.Equal(t, 3, co2.MaxSteps)
	assert.Equal(t, AgentProfile{}, cfg.Profile("recommend"))
}

func TestGetDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Second, GetDuration("SOME_TIMEOUT", time.Second))
}

func TestGetList(t *testing.T) {
	t.Setenv("SOME_HOSTS", " Example.com, ,docs.melexis.com ")
	assert.Equal(t, []string{"example.com", "docs.melexis.com"}, GetList("SOME_HOSTS"))

	t.Setenv("SOME_HOSTS", "")
	assert.Nil(t, GetList("SOME_HOSTS"))
}
