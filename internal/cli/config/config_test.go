package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GENOLOGICS_BASEURI", "GENOLOGICS_USERNAME", "GENOLOGICS_PASSWORD",
		"GENOLOGICS_TIMEOUT_SECONDS", "GENOLOGICS_LOG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := inTempDir(t)
	clearEnv(t)

	contents := "baseuri: http://lims.example.com/api/v2\nusername: apiuser\npassword: secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "genologics.yaml"), []byte(contents), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://lims.example.com/api/v2", cfg.BaseURI)
	assert.Equal(t, "apiuser", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 60, cfg.TimeoutSeconds, "default applies")
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	inTempDir(t)
	clearEnv(t)
	t.Setenv("GENOLOGICS_BASEURI", "https://lims.example.com/api/v2")
	t.Setenv("GENOLOGICS_USERNAME", "envuser")
	t.Setenv("GENOLOGICS_PASSWORD", "envpass")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://lims.example.com/api/v2", cfg.BaseURI)
	assert.Equal(t, "envuser", cfg.Username)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := inTempDir(t)
	clearEnv(t)

	contents := "baseuri: http://lims.example.com/api/v2\nusername: fileuser\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "genologics.yaml"), []byte(contents), 0o600))
	t.Setenv("GENOLOGICS_USERNAME", "envuser")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "envuser", cfg.Username)
}

func TestLoadRequiresBaseURI(t *testing.T) {
	inTempDir(t)
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseuri")
}

func TestLoadRejectsRelativeBaseURI(t *testing.T) {
	inTempDir(t)
	clearEnv(t)
	t.Setenv("GENOLOGICS_BASEURI", "lims.example.com/api")
	t.Setenv("GENOLOGICS_USERNAME", "u")

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := inTempDir(t)
	clearEnv(t)

	in := &Config{
		BaseURI:        "http://lims.example.com/api/v2",
		Username:       "apiuser",
		Password:       "secret",
		TimeoutSeconds: 30,
	}
	path, err := Save(in, dir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, in.BaseURI, cfg.BaseURI)
	assert.Equal(t, in.Username, cfg.Username)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
}
