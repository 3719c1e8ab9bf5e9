// Package uiharnesstest runs harness scenarios as Go subtests.
package uiharnesstest

import (
	"context"
	"testing"

	"github.com/networkteam/uiharness"
	"github.com/networkteam/uiharness/session"
	"github.com/networkteam/uiharness/steps"
)

// Scenario runs fn as a subtest of t with a fresh browser session from inst. The session is torn
// down in t.Cleanup, and artifacts are written if the subtest failed.
func Scenario(t *testing.T, inst *uiharness.Instance, name string, fn func(t *testing.T, ctx context.Context, l *steps.LoginSteps)) bool {
	t.Helper()

	return t.Run(name, func(t *testing.T) {
		ctx := context.Background()
		m := inst.NewManager(name)
		if err := m.SetUp(ctx); err != nil {
			t.Fatalf("setting up scenario: %v", err)
		}
		t.Cleanup(func() {
			m.TearDown(ctx, session.Outcome{Name: name, Failed: t.Failed()})
		})

		s, err := m.Session()
		if err != nil {
			t.Fatalf("getting session: %v", err)
		}
		fn(t, session.WithSession(ctx, s), steps.NewLoginSteps(s))
	})
}
