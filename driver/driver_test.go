package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_String(t *testing.T) {
	assert.Equal(t, "name=username", Name("username").String())
	assert.Equal(t, "submit button", CSS("button[type='submit']").Describe("submit button").String())
}

func TestLocator_Sensitive(t *testing.T) {
	loc := CSS("button")
	sensitive := loc.Sensitive()

	assert.False(t, loc.ClickSensitive, "original locator must not be modified")
	assert.True(t, sensitive.ClickSensitive)
}

func TestLocator_CSSSelector(t *testing.T) {
	tests := []struct {
		name   string
		loc    Locator
		want   string
		wantOK bool
	}{
		{name: "css", loc: CSS("#login"), want: "#login", wantOK: true},
		{name: "name", loc: Name("username"), want: `[name="username"]`, wantOK: true},
		{name: "name with quote", loc: Name(`a"b`), want: `[name="a\"b"]`, wantOK: true},
		{name: "xpath", loc: XPath("//div"), wantOK: false},
		{name: "text", loc: Text("Dashboard"), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.loc.CSSSelector()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaywrightSelector(t *testing.T) {
	assert.Equal(t, "css=button[type='submit']", playwrightSelector(CSS("button[type='submit']")))
	assert.Equal(t, `css=[name="password"]`, playwrightSelector(Name("password")))
	assert.Equal(t, "xpath=//h6[contains(text(), 'Dashboard')]", playwrightSelector(XPath("//h6[contains(text(), 'Dashboard')]")))
	assert.Equal(t, "text=Welcome", playwrightSelector(Text("Welcome")))
}

func TestChromedpSelector(t *testing.T) {
	sel, _ := chromedpSelector(Name("username"))
	assert.Equal(t, `[name="username"]`, sel)

	sel, _ = chromedpSelector(XPath("//div"))
	assert.Equal(t, "//div", sel)

	sel, _ = chromedpSelector(Text("Welcome"))
	assert.Equal(t, `//*[contains(text(), "Welcome")]`, sel)
}

func TestLaunchOptions_ChromeArgs(t *testing.T) {
	opts := DefaultLaunchOptions()
	opts.ExtraArgs = []string{"--lang=en-US"}

	args := opts.ChromeArgs()

	assert.Equal(t, []string{
		"--window-size=1200,800",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--lang=en-US",
	}, args)
	assert.True(t, opts.Headless)
}

func TestLaunchOptions_ZeroValueGetsDefaults(t *testing.T) {
	opts := LaunchOptions{}.withDefaults()

	assert.Equal(t, DefaultImplicitWait, opts.ImplicitWait)
	assert.Equal(t, DefaultWindowWidth, opts.WindowWidth)
	assert.Equal(t, DefaultWindowHeight, opts.WindowHeight)
	assert.NotNil(t, opts.Logger)
}

func TestSplitChromeArg(t *testing.T) {
	name, value := splitChromeArg("--no-sandbox")
	assert.Equal(t, "no-sandbox", name)
	assert.Equal(t, true, value)

	name, value = splitChromeArg("--window-size=1200,800")
	assert.Equal(t, "window-size", name)
	assert.Equal(t, "1200,800", value)
}

func TestLauncherFor(t *testing.T) {
	l, err := LauncherFor("")
	require.NoError(t, err)
	assert.IsType(t, &PlaywrightLauncher{}, l)

	l, err = LauncherFor(BackendChromedp)
	require.NoError(t, err)
	assert.IsType(t, &ChromedpLauncher{}, l)

	_, err = LauncherFor("firefox")
	assert.Error(t, err)
}
