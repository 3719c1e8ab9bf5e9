package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuchElement is returned by FindElement when nothing matches the locator at the time of the call.
var ErrNoSuchElement = errors.New("no such element")

// Strategy selects how a Locator's selector string is interpreted.
type Strategy string

const (
	// ByCSS matches a CSS selector.
	ByCSS Strategy = "css"
	// ByXPath matches an XPath expression.
	ByXPath Strategy = "xpath"
	// ByName matches elements by their name attribute.
	ByName Strategy = "name"
	// ByText matches elements by their visible text.
	ByText Strategy = "text"
)

// Locator is a declarative description of how to find one or more UI elements.
type Locator struct {
	Strategy Strategy
	Selector string
	// Description is used in error messages. Defaults to "<strategy>=<selector>".
	Description string
	// ClickSensitive marks targets that can be present but not yet clickable
	// (submit buttons behind overlays or async re-renders).
	ClickSensitive bool
}

// CSS returns a CSS locator.
func CSS(selector string) Locator {
	return Locator{Strategy: ByCSS, Selector: selector}
}

// XPath returns an XPath locator.
func XPath(expr string) Locator {
	return Locator{Strategy: ByXPath, Selector: expr}
}

// Name returns a locator matching the name attribute.
func Name(name string) Locator {
	return Locator{Strategy: ByName, Selector: name}
}

// Text returns a locator matching visible text.
func Text(text string) Locator {
	return Locator{Strategy: ByText, Selector: text}
}

// Describe returns a copy of the locator with a human readable description.
func (l Locator) Describe(description string) Locator {
	l.Description = description
	return l
}

// Sensitive returns a copy of the locator marked as click-sensitive.
func (l Locator) Sensitive() Locator {
	l.ClickSensitive = true
	return l
}

func (l Locator) String() string {
	if l.Description != "" {
		return l.Description
	}
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}

// CSSSelector converts css and name locators to a plain CSS selector.
// The second return value is false for strategies that have no CSS equivalent.
func (l Locator) CSSSelector() (string, bool) {
	switch l.Strategy {
	case ByCSS:
		return l.Selector, true
	case ByName:
		return fmt.Sprintf(`[name="%s"]`, strings.ReplaceAll(l.Selector, `"`, `\"`)), true
	default:
		return "", false
	}
}

// Element is an opaque handle to a resolved element.
// Handles are only valid until the next DOM re-render and must not be cached across calls.
type Element interface {
	Locator() Locator
}

// Driver is the browser capability boundary the harness builds on.
// Implementations must be safe for use by a single worker; they are never shared.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// FindElement returns the first match or ErrNoSuchElement without waiting beyond the implicit timeout.
	FindElement(ctx context.Context, loc Locator) (Element, error)
	CountElements(ctx context.Context, loc Locator) (int, error)
	// IsVisible reports whether any element matching loc is currently rendered and visible.
	IsVisible(ctx context.Context, loc Locator) (bool, error)
	Click(ctx context.Context, el Element) error
	// ClearAndType clears the element's content and types text verbatim.
	ClearAndType(ctx context.Context, el Element, text string) error
	CurrentURL(ctx context.Context) (string, error)
	// CaptureScreen returns a PNG image of the current viewport.
	CaptureScreen(ctx context.Context) ([]byte, error)
	Quit(ctx context.Context) error
}

// ConsoleMessage is a message logged to the browser console.
type ConsoleMessage struct {
	Type string
	Text string
}

// ConsoleSource is implemented by drivers that can stream browser console messages.
type ConsoleSource interface {
	OnConsole(fn func(ConsoleMessage))
}

// Launcher creates a new Driver.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Driver, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, opts LaunchOptions) (Driver, error)

func (f LauncherFunc) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	return f(ctx, opts)
}
