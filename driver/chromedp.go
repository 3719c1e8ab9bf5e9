package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/samber/lo"
)

// ChromedpLauncher starts Chromium directly over the DevTools protocol.
type ChromedpLauncher struct {
	// ExecPath overrides the Chromium binary. Empty lets chromedp find one.
	ExecPath string
}

// NewChromedpLauncher creates a launcher that finds Chromium on the PATH.
func NewChromedpLauncher() *ChromedpLauncher {
	return &ChromedpLauncher{}
}

// Launch starts a browser process and opens its first tab.
// The browser is not bound to ctx; it lives until Quit is called.
func (l *ChromedpLauncher) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", opts.Headless))
	for _, arg := range opts.ChromeArgs() {
		allocOpts = append(allocOpts, chromeFlag(arg))
	}
	if l.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			opts.Logger.Debug(fmt.Sprintf(format, args...), slog.String("component", "chromedp"))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			opts.Logger.Warn(fmt.Sprintf(format, args...), slog.String("component", "chromedp"))
		}),
	)

	d := &ChromedpDriver{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		implicitWait:  opts.ImplicitWait,
	}

	chromedp.ListenTarget(browserCtx, d.handleEvent)

	// The first Run allocates the browser and binds its lifetime to the context it is given,
	// so it must run on browserCtx itself and not on a derived timeout context.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	opts.Logger.Debug("Launched chromedp chromium", slog.Bool("headless", opts.Headless))

	return d, nil
}

// ChromedpDriver implements Driver on the first tab of a chromedp browser.
type ChromedpDriver struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	implicitWait  time.Duration

	consoleMu       sync.RWMutex
	consoleHandlers []func(ConsoleMessage)
}

var (
	_ Driver        = &ChromedpDriver{}
	_ ConsoleSource = &ChromedpDriver{}
)

type chromedpElement struct {
	loc  Locator
	node *cdp.Node
}

func (e *chromedpElement) Locator() Locator {
	return e.loc
}

func (d *ChromedpDriver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (d *ChromedpDriver) FindElement(ctx context.Context, loc Locator) (Element, error) {
	nodes, err := d.nodes(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrNoSuchElement
	}
	return &chromedpElement{loc: loc, node: nodes[0]}, nil
}

func (d *ChromedpDriver) CountElements(ctx context.Context, loc Locator) (int, error) {
	nodes, err := d.nodes(ctx, loc)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// IsVisible treats a node as visible if it has a box model, i.e. it takes part in layout.
func (d *ChromedpDriver) IsVisible(ctx context.Context, loc Locator) (bool, error) {
	nodes, err := d.nodes(ctx, loc)
	if err != nil {
		return false, err
	}
	for _, n := range nodes {
		var laidOut bool
		err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := dom.GetBoxModel().WithNodeID(n.NodeID).Do(ctx)
			laidOut = err == nil
			return nil
		}))
		if err != nil {
			return false, fmt.Errorf("checking visibility of %s: %w", loc, err)
		}
		if laidOut {
			return true, nil
		}
	}
	return false, nil
}

func (d *ChromedpDriver) Click(ctx context.Context, el Element) error {
	ce, err := d.element(el)
	if err != nil {
		return err
	}
	return d.run(ctx, chromedp.MouseClickNode(ce.node))
}

func (d *ChromedpDriver) ClearAndType(ctx context.Context, el Element, text string) error {
	ce, err := d.element(el)
	if err != nil {
		return err
	}
	return d.run(ctx,
		chromedp.SetValue([]cdp.NodeID{ce.node.NodeID}, "", chromedp.ByNodeID),
		chromedp.KeyEventNode(ce.node, text),
	)
}

func (d *ChromedpDriver) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := d.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (d *ChromedpDriver) CaptureScreen(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *ChromedpDriver) OnConsole(fn func(ConsoleMessage)) {
	d.consoleMu.Lock()
	defer d.consoleMu.Unlock()
	d.consoleHandlers = append(d.consoleHandlers, fn)
}

// Quit closes the browser gracefully and releases the allocator.
// The contexts are cancelled even if the graceful close fails.
func (d *ChromedpDriver) Quit(ctx context.Context) error {
	defer d.cancelAlloc()
	defer d.cancelBrowser()
	return chromedp.Cancel(d.browserCtx)
}

func (d *ChromedpDriver) handleEvent(ev any) {
	msg, ok := ev.(*runtime.EventConsoleAPICalled)
	if !ok {
		return
	}
	text := strings.Join(lo.Map(msg.Args, func(arg *runtime.RemoteObject, _ int) string {
		if len(arg.Value) > 0 {
			return strings.Trim(string(arg.Value), `"`)
		}
		return arg.Description
	}), " ")

	d.consoleMu.RLock()
	defer d.consoleMu.RUnlock()
	for _, fn := range d.consoleHandlers {
		fn(ConsoleMessage{Type: string(msg.Type), Text: text})
	}
}

func (d *ChromedpDriver) nodes(ctx context.Context, loc Locator) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	sel, by := chromedpSelector(loc)
	if err := d.run(ctx, chromedp.Nodes(sel, &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("querying %s: %w", loc, err)
	}
	return nodes, nil
}

// run executes actions on the browser tab, bounded by the implicit wait and the caller's ctx.
func (d *ChromedpDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(d.browserCtx, d.implicitWait)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (d *ChromedpDriver) element(el Element) (*chromedpElement, error) {
	ce, ok := el.(*chromedpElement)
	if !ok {
		return nil, fmt.Errorf("element %T was not resolved by the chromedp driver", el)
	}
	return ce, nil
}

func chromedpSelector(loc Locator) (string, chromedp.QueryOption) {
	switch loc.Strategy {
	case ByXPath:
		return loc.Selector, chromedp.BySearch
	case ByText:
		return fmt.Sprintf(`//*[contains(text(), %q)]`, loc.Selector), chromedp.BySearch
	default:
		css, _ := loc.CSSSelector()
		return css, chromedp.ByQueryAll
	}
}

// chromeFlag converts "--name=value" or "--name" into an allocator flag.
func chromeFlag(arg string) chromedp.ExecAllocatorOption {
	return chromedp.Flag(splitChromeArg(arg))
}

func splitChromeArg(arg string) (string, any) {
	name, value, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	if !found {
		return name, true
	}
	return name, value
}
