package interact

import (
	"context"

	"github.com/networkteam/uiharness/driver"
)

// Probe is one named attempt in a fallback chain.
type Probe struct {
	Name  string
	Check func(ctx context.Context) bool
}

// LocatorProbe succeeds when loc resolves within the interactor's wait timeout.
func LocatorProbe(i *Interactor, loc driver.Locator) Probe {
	return Probe{
		Name: loc.String(),
		Check: func(ctx context.Context) bool {
			return i.Present(ctx, loc)
		},
	}
}

// VisibleProbe succeeds when loc is visible within the interactor's wait timeout.
func VisibleProbe(i *Interactor, loc driver.Locator) Probe {
	return Probe{
		Name: loc.String(),
		Check: func(ctx context.Context) bool {
			return i.Visible(ctx, loc)
		},
	}
}

// FirstMatch evaluates probes in order and returns the index of the first one that succeeds.
// Later probes are not evaluated. It returns -1 and false if none succeeded.
func FirstMatch(ctx context.Context, probes ...Probe) (int, bool) {
	for idx, p := range probes {
		if ctx.Err() != nil {
			return -1, false
		}
		if p.Check(ctx) {
			return idx, true
		}
	}
	return -1, false
}
