// Package testlog provides a test logger and helpers to check what was logged.
package testlog

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// Hook records every entry logged through the logger returned by New.
type Hook struct {
	*test.Hook
}

// New sets up a test logger that produces no output and logs at debug level.
// Use the returned hook to make assertions about what was logged.
func New() (*logrus.Logger, *Hook) {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.DebugLevel

	return l, &Hook{Hook: test.NewLocal(l)}
}

// Find returns the first entry carrying all of fields, or nil. Values are
// compared by their fmt representation.
func (h *Hook) Find(fields logrus.Fields) *logrus.Entry {
	for _, e := range h.AllEntries() {
		if matches(e, fields) {
			return e
		}
	}
	return nil
}

// CheckFields fails tb unless some entry carries all of fields.
func (h *Hook) CheckFields(tb testing.TB, fields logrus.Fields) *logrus.Entry {
	tb.Helper()

	e := h.Find(fields)
	if e == nil {
		tb.Fatalf("got entries:\n%s\nexpected one with fields: %v", h, fields)
	}
	return e
}

// CheckNoFields fails tb if any entry carries all of fields.
func (h *Hook) CheckNoFields(tb testing.TB, fields logrus.Fields) {
	tb.Helper()

	if e := h.Find(fields); e != nil {
		tb.Fatalf("got unexpected entry: %v", e.Data)
	}
}

// CheckMessage fails tb unless some entry was logged at level with msg.
func (h *Hook) CheckMessage(tb testing.TB, level logrus.Level, msg string) {
	tb.Helper()

	for _, e := range h.AllEntries() {
		if e.Level == level && e.Message == msg {
			return
		}
	}
	tb.Fatalf("got entries:\n%s\nexpected %s message %q", h, level, msg)
}

// String formats all entries, one per line.
func (h *Hook) String() string {
	var b strings.Builder
	for _, e := range h.AllEntries() {
		fmt.Fprintf(&b, "level=%s msg=%q %v\n", e.Level, e.Message, e.Data)
	}
	return b.String()
}

func matches(e *logrus.Entry, fields logrus.Fields) bool {
	for k, want := range fields {
		got, ok := e.Data[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
