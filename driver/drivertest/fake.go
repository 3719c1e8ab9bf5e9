// Package drivertest provides a scriptable in-memory driver.Driver for tests.
package drivertest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/networkteam/uiharness/driver"
)

// ErrClickIntercepted is returned by a fake element while it still has pending click failures.
var ErrClickIntercepted = errors.New("element click intercepted")

// PNG is a minimal byte sequence returned by CaptureScreen when no screenshot is configured.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Call records one driver operation.
type Call struct {
	Op      string
	Locator driver.Locator
	Text    string
}

// Element is a fake DOM element.
type Element struct {
	d   *Driver
	loc driver.Locator

	addedAt     time.Time
	appearAfter time.Duration

	hidden        bool
	value         string
	clickFailures int
	clicks        int
	onClick       func(d *Driver)
}

func (e *Element) Locator() driver.Locator {
	return e.loc
}

// AppearAfter keeps the element out of the DOM until the delay has passed.
func (e *Element) AppearAfter(delay time.Duration) *Element {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	e.addedAt = time.Now()
	e.appearAfter = delay
	return e
}

// Hide keeps the element in the DOM but makes it invisible, like display:none.
func (e *Element) Hide() *Element {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	e.hidden = true
	return e
}

// FailClicks makes the next n clicks fail with ErrClickIntercepted.
func (e *Element) FailClicks(n int) *Element {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	e.clickFailures = n
	return e
}

// OnClick registers a callback invoked after a successful click, e.g. to simulate navigation.
func (e *Element) OnClick(fn func(d *Driver)) *Element {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	e.onClick = fn
	return e
}

// SetValue sets the field content as if a user had typed it.
func (e *Element) SetValue(v string) *Element {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	e.value = v
	return e
}

// Value returns the current field content.
func (e *Element) Value() string {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	return e.value
}

// Clicks returns the number of successful clicks.
func (e *Element) Clicks() int {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	return e.clicks
}

func (e *Element) appeared(now time.Time) bool {
	return now.Sub(e.addedAt) >= e.appearAfter
}

// Driver is a fake browser holding a flat set of elements keyed by locator.
type Driver struct {
	mu sync.Mutex

	url      string
	elements map[string][]*Element
	calls    []Call
	console  []func(driver.ConsoleMessage)

	// Screenshot is returned by CaptureScreen. Defaults to PNG.
	Screenshot []byte
	// CaptureErr makes CaptureScreen fail.
	CaptureErr error
	// CapturePanic makes CaptureScreen panic with the given value.
	CapturePanic any
	// QuitErr makes Quit fail (after the driver has been marked as quit).
	QuitErr error
	// NavigateErr makes Navigate fail.
	NavigateErr error

	quits int
}

var (
	_ driver.Driver        = &Driver{}
	_ driver.ConsoleSource = &Driver{}
)

// New creates an empty fake driver at about:blank.
func New() *Driver {
	return &Driver{
		url:      "about:blank",
		elements: make(map[string][]*Element),
	}
}

// Launcher returns a launcher that always hands out d.
func (d *Driver) Launcher() driver.Launcher {
	return driver.LauncherFunc(func(ctx context.Context, opts driver.LaunchOptions) (driver.Driver, error) {
		return d, nil
	})
}

// Add adds an element matched by loc. Multiple elements per locator are counted by CountElements.
func (d *Driver) Add(loc driver.Locator) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := &Element{d: d, loc: loc, addedAt: time.Now()}
	d.elements[key(loc)] = append(d.elements[key(loc)], el)
	return el
}

// Remove removes all elements matched by loc.
func (d *Driver) Remove(loc driver.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, key(loc))
}

// SetURL sets the current URL without recording a navigation.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// Calls returns the recorded operations in order.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	calls := make([]Call, len(d.calls))
	copy(calls, d.calls)
	return calls
}

// Quits returns how often Quit was called.
func (d *Driver) Quits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quits
}

// EmitConsole delivers a console message to all registered handlers.
func (d *Driver) EmitConsole(msg driver.ConsoleMessage) {
	d.mu.Lock()
	handlers := append([]func(driver.ConsoleMessage){}, d.console...)
	d.mu.Unlock()
	for _, fn := range handlers {
		fn(msg)
	}
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "navigate", Text: url})
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.url = url
	return nil
}

func (d *Driver) FindElement(ctx context.Context, loc driver.Locator) (driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "find", Locator: loc})
	now := time.Now()
	for _, el := range d.elements[key(loc)] {
		if el.appeared(now) {
			return el, nil
		}
	}
	return nil, driver.ErrNoSuchElement
}

func (d *Driver) CountElements(ctx context.Context, loc driver.Locator) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "count", Locator: loc})
	now := time.Now()
	n := 0
	for _, el := range d.elements[key(loc)] {
		if el.appeared(now) {
			n++
		}
	}
	return n, nil
}

func (d *Driver) IsVisible(ctx context.Context, loc driver.Locator) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "visible", Locator: loc})
	now := time.Now()
	for _, el := range d.elements[key(loc)] {
		if el.appeared(now) && !el.hidden {
			return true, nil
		}
	}
	return false, nil
}

func (d *Driver) Click(ctx context.Context, el driver.Element) error {
	fe := el.(*Element)
	d.mu.Lock()
	d.calls = append(d.calls, Call{Op: "click", Locator: fe.loc})
	if fe.clickFailures > 0 {
		fe.clickFailures--
		d.mu.Unlock()
		return ErrClickIntercepted
	}
	fe.clicks++
	onClick := fe.onClick
	d.mu.Unlock()

	if onClick != nil {
		onClick(d)
	}
	return nil
}

func (d *Driver) ClearAndType(ctx context.Context, el driver.Element, text string) error {
	fe := el.(*Element)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "type", Locator: fe.loc, Text: text})
	fe.value = text
	return nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Driver) CaptureScreen(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "capture"})
	if d.CapturePanic != nil {
		panic(d.CapturePanic)
	}
	if d.CaptureErr != nil {
		return nil, d.CaptureErr
	}
	if d.Screenshot != nil {
		return d.Screenshot, nil
	}
	return PNG, nil
}

func (d *Driver) OnConsole(fn func(driver.ConsoleMessage)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.console = append(d.console, fn)
}

func (d *Driver) Quit(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "quit"})
	d.quits++
	return d.QuitErr
}

func key(loc driver.Locator) string {
	return string(loc.Strategy) + "=" + loc.Selector
}
