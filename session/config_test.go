package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		session.EnvNoHeadless,
		session.EnvBackend,
		session.EnvArtifactsDir,
		session.EnvBaseURL,
		session.EnvWaitTimeout,
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := session.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, session.DefaultConfig(), cfg)

	opts := cfg.LaunchOptions()
	assert.True(t, opts.Headless)
	assert.Equal(t, 15*time.Second, opts.ImplicitWait)
	assert.Equal(t, 30*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait.PollInterval)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "uiharness.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend = "chromedp"
no_headless = true
base_url = "http://localhost:8080"
artifacts_dir = "out/artifacts"

[wait]
timeout = "10s"
poll_interval = "100ms"
implicit = "5s"

[window]
width = 1920
height = 1080
`), 0644))

	cfg, err := session.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, driver.BackendChromedp, cfg.Backend)
	assert.True(t, cfg.NoHeadless)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "out/artifacts", cfg.ArtifactsDir)
	assert.Equal(t, 10*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Wait.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.ImplicitWait)

	opts := cfg.LaunchOptions()
	assert.False(t, opts.Headless)
	assert.Contains(t, opts.ChromeArgs(), "--window-size=1920,1080")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(session.EnvNoHeadless, "1")
	t.Setenv(session.EnvBackend, "chromedp")
	t.Setenv(session.EnvArtifactsDir, "/tmp/shots")
	t.Setenv(session.EnvBaseURL, "http://127.0.0.1:9999")
	t.Setenv(session.EnvWaitTimeout, "45")

	cfg, err := session.LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.NoHeadless)
	assert.Equal(t, driver.BackendChromedp, cfg.Backend)
	assert.Equal(t, "/tmp/shots", cfg.ArtifactsDir)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Wait.Timeout)
}

func TestLoadConfig_EmptyNoHeadlessMeansHeadless(t *testing.T) {
	clearEnv(t)
	t.Setenv(session.EnvNoHeadless, "")

	cfg, err := session.LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.LaunchOptions().Headless)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	_, err := session.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[wait]\ntimeout = \"soon\"\n"), 0644))
	_, err = session.LoadConfig(path)
	assert.ErrorContains(t, err, "wait.timeout")

	t.Setenv(session.EnvWaitTimeout, "forever")
	_, err = session.LoadConfig("")
	assert.ErrorContains(t, err, session.EnvWaitTimeout)
}
