package session

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/internal/ringbuffer"
)

// DefaultConsoleCapacity is the number of browser console messages kept per session.
const DefaultConsoleCapacity = 500

type consoleRecorder struct {
	messages *ringbuffer.Buffer[driver.ConsoleMessage]
}

func newConsoleRecorder(capacity int) *consoleRecorder {
	if capacity <= 0 {
		capacity = DefaultConsoleCapacity
	}
	return &consoleRecorder{messages: ringbuffer.New[driver.ConsoleMessage](capacity)}
}

func (r *consoleRecorder) record(msg driver.ConsoleMessage) {
	r.messages.Add(msg)
}

// lines formats messages as "[type] text", prefixed with a note if older messages were dropped.
func (r *consoleRecorder) lines() []string {
	lines := lo.Map(r.messages.All(), func(m driver.ConsoleMessage, _ int) string {
		return fmt.Sprintf("[%s] %s", m.Type, m.Text)
	})
	if dropped := r.messages.Dropped(); dropped > 0 {
		lines = append([]string{fmt.Sprintf("(%d earlier messages dropped)", dropped)}, lines...)
	}
	return lines
}
