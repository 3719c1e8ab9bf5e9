package pages

import (
	"context"

	"github.com/samber/lo"

	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
)

// DashboardLocators are tried in order to detect the dashboard.
var DashboardLocators = []driver.Locator{
	driver.XPath("//h6[contains(text(), 'Dashboard')]").Describe("dashboard heading"),
	driver.XPath("//*[contains(text(), 'Dashboard')]").Describe("dashboard text"),
	driver.XPath("//div[contains(text(), 'Welcome')]").Describe("welcome banner"),
}

// HomePage is the page object for the landing page after login.
type HomePage struct {
	Base
}

func NewHomePage(i *interact.Interactor) *HomePage {
	return &HomePage{Base: Base{i: i}}
}

// IsDashboardDisplayed waits for each dashboard locator in order to become visible, each with the
// full wait timeout.
// If none is found it falls back to checking that the browser left the login page.
// Any page that is not the login page counts as the dashboard, including intermediate
// redirect or error pages.
func (p *HomePage) IsDashboardDisplayed(ctx context.Context) bool {
	probes := lo.Map(DashboardLocators, func(loc driver.Locator, _ int) interact.Probe {
		return interact.VisibleProbe(p.i, loc)
	})
	probes = append(probes, interact.Probe{Name: "left login page", Check: p.leftLoginPage})

	_, ok := interact.FirstMatch(ctx, probes...)
	return ok
}

func (p *HomePage) leftLoginPage(ctx context.Context) bool {
	url, err := p.i.CurrentURL(ctx)
	return err == nil && !IsLoginURL(url)
}
