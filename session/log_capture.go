package session

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/networkteam/uiharness/internal/ringbuffer"
)

// DefaultLogCapacity is the number of log records kept per scenario.
const DefaultLogCapacity = 1000

// LogCapture keeps the most recent log records of one scenario so they can be saved on failure.
type LogCapture struct {
	records *ringbuffer.Buffer[slog.Record]
}

// NewLogCapture creates a capture holding up to capacity records.
func NewLogCapture(capacity int) *LogCapture {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogCapture{
		records: ringbuffer.New[slog.Record](capacity),
	}
}

// Handler returns a slog handler writing into the capture.
func (c *LogCapture) Handler(level slog.Leveler) slog.Handler {
	return &captureHandler{
		capture: c,
		level:   level,
	}
}

// Records returns the captured records, oldest first.
func (c *LogCapture) Records() []slog.Record {
	return c.records.All()
}

// Lines renders the captured records in logfmt, one line per record.
func (c *LogCapture) Lines() []string {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	for _, r := range c.records.All() {
		_ = h.Handle(context.Background(), r)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// captureHandler keeps handler-level attributes as a stack of scopes, one per WithGroup call.
// The first scope has no group name.
type captureHandler struct {
	capture *LogCapture
	level   slog.Leveler
	scopes  []captureScope
}

type captureScope struct {
	group string
	attrs []slog.Attr
}

func (h *captureHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return level >= slog.LevelInfo
	}
	return level >= h.level.Level()
}

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	nested := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		nested = append(nested, attr)
		return true
	})

	for _, scope := range slices.Backward(h.scopes) {
		nested = append(slices.Clip(scope.attrs), nested...)
		if scope.group != "" && len(nested) > 0 {
			nested = []slog.Attr{{Key: scope.group, Value: slog.GroupValue(nested...)}}
		}
	}

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	out.AddAttrs(nested...)
	h.capture.records.Add(out)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	scopes := h.cloneScopes()
	last := &scopes[len(scopes)-1]
	last.attrs = append(slices.Clip(last.attrs), attrs...)
	return &captureHandler{capture: h.capture, level: h.level, scopes: scopes}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	scopes := append(h.cloneScopes(), captureScope{group: name})
	return &captureHandler{capture: h.capture, level: h.level, scopes: scopes}
}

func (h *captureHandler) cloneScopes() []captureScope {
	if len(h.scopes) == 0 {
		return []captureScope{{}}
	}
	return slices.Clone(h.scopes)
}
