package session

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/networkteam/uiharness/artifact"
	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
)

// Environment variables overriding file configuration.
const (
	EnvNoHeadless   = "UIHARNESS_NO_HEADLESS"
	EnvBackend      = "UIHARNESS_BACKEND"
	EnvArtifactsDir = "UIHARNESS_ARTIFACTS_DIR"
	EnvBaseURL      = "UIHARNESS_BASE_URL"
	EnvWaitTimeout  = "UIHARNESS_WAIT_TIMEOUT"
)

// DefaultBaseURL is the application under test when nothing else is configured.
const DefaultBaseURL = "https://opensource-demo.orangehrmlive.com"

// Config holds everything a Manager needs to create a session.
type Config struct {
	Backend driver.Backend
	// NoHeadless shows the browser window.
	NoHeadless   bool
	BaseURL      string
	ArtifactsDir string
	Wait         interact.WaitContext
	// ImplicitWait bounds single driver calls beneath Wait.
	ImplicitWait time.Duration
	WindowWidth  int
	WindowHeight int
}

// DefaultConfig returns a headless Playwright configuration.
func DefaultConfig() Config {
	return Config{
		Backend:      driver.BackendPlaywright,
		BaseURL:      DefaultBaseURL,
		ArtifactsDir: artifact.DefaultDir,
		Wait:         interact.DefaultWaitContext(),
		ImplicitWait: driver.DefaultImplicitWait,
		WindowWidth:  driver.DefaultWindowWidth,
		WindowHeight: driver.DefaultWindowHeight,
	}
}

// LaunchOptions converts the config to driver launch options.
func (c Config) LaunchOptions() driver.LaunchOptions {
	opts := driver.DefaultLaunchOptions()
	opts.Headless = !c.NoHeadless
	opts.ImplicitWait = c.ImplicitWait
	opts.WindowWidth = c.WindowWidth
	opts.WindowHeight = c.WindowHeight
	return opts
}

type fileConfig struct {
	Backend      string `toml:"backend"`
	NoHeadless   bool   `toml:"no_headless"`
	BaseURL      string `toml:"base_url"`
	ArtifactsDir string `toml:"artifacts_dir"`
	Wait         struct {
		Timeout      string `toml:"timeout"`
		PollInterval string `toml:"poll_interval"`
		Implicit     string `toml:"implicit"`
	} `toml:"wait"`
	Window struct {
		Width  int `toml:"width"`
		Height int `toml:"height"`
	} `toml:"window"`
}

// LoadConfig reads a TOML config file and applies environment overrides.
// An empty path skips the file and only applies the environment to the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Backend != "" {
		c.Backend = driver.Backend(fc.Backend)
	}
	c.NoHeadless = fc.NoHeadless
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.ArtifactsDir != "" {
		c.ArtifactsDir = fc.ArtifactsDir
	}
	if fc.Window.Width > 0 {
		c.WindowWidth = fc.Window.Width
	}
	if fc.Window.Height > 0 {
		c.WindowHeight = fc.Window.Height
	}

	for _, d := range []struct {
		name   string
		raw    string
		target *time.Duration
	}{
		{"wait.timeout", fc.Wait.Timeout, &c.Wait.Timeout},
		{"wait.poll_interval", fc.Wait.PollInterval, &c.Wait.PollInterval},
		{"wait.implicit", fc.Wait.Implicit, &c.ImplicitWait},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.target = v
	}
	return nil
}

// applyEnv overlays environment variables. Any non-empty UIHARNESS_NO_HEADLESS value shows the browser.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvNoHeadless); ok && v != "" {
		c.NoHeadless = true
	}
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Backend = driver.Backend(v)
	}
	if v, ok := lookup(EnvArtifactsDir); ok && v != "" {
		c.ArtifactsDir = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvWaitTimeout); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			// Plain numbers are seconds.
			secs, serr := strconv.Atoi(v)
			if serr != nil {
				return fmt.Errorf("invalid %s: %w", EnvWaitTimeout, err)
			}
			timeout = time.Duration(secs) * time.Second
		}
		c.Wait.Timeout = timeout
	}
	return nil
}
