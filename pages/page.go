// Package pages contains page objects for the login flow.
// Page objects hold fixed locators and resolve elements on every call.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/networkteam/uiharness/artifact"
	"github.com/networkteam/uiharness/interact"
)

const (
	// LoginPath is the path of the login page relative to the application base URL.
	LoginPath = "/web/index.php/auth/login"

	// loginMarker is the URL fragment that identifies the login page.
	loginMarker = "auth/login"
)

// IsLoginURL reports whether url still points at the login page.
func IsLoginURL(url string) bool {
	return strings.Contains(url, loginMarker)
}

// LoginURL joins baseURL and LoginPath.
func LoginURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + LoginPath
}

// Base provides operations shared by all pages.
type Base struct {
	i *interact.Interactor
}

// CurrentURL returns the browser's current address.
func (b Base) CurrentURL(ctx context.Context) (string, error) {
	return b.i.CurrentURL(ctx)
}

// SaveScreenshot captures the current screen into store under name and returns the file path.
func (b Base) SaveScreenshot(ctx context.Context, store *artifact.Store, name string) (string, error) {
	png, err := b.i.CaptureScreen(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: capturing screen: %w", artifact.ErrCaptureFailed, err)
	}
	return store.SaveScreenshot(name, png)
}
