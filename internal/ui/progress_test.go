package ui

import (
	"strings"
	"testing"
	"time"

	"svcore/internal/driver"
)

func TestProgressFollowsEvents(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("check", []string{"a.toml", "b.toml"}, events)
	m, ok := model.(*checkModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	steps := []struct {
		ev       driver.Event
		fraction float64
	}{
		{driver.Event{File: "a.toml", Stage: driver.StageLoad, Status: driver.StatusWorking}, 0.2},
		{driver.Event{File: "a.toml", Stage: driver.StageSnapshot, Status: driver.StatusWorking}, 0.4},
		{driver.Event{File: "a.toml", Stage: driver.StageLoad, Status: driver.StatusDone, Elapsed: time.Millisecond}, 0.5},
		{driver.Event{File: "b.toml", Stage: driver.StageLoad, Status: driver.StatusError}, 1},
		{driver.Event{File: "b.toml", Stage: driver.StageLoad, Status: driver.StatusError}, 1},
		{driver.Event{File: "other.toml", Stage: driver.StageLoad, Status: driver.StatusDone}, 1},
	}
	for i, step := range steps {
		m.Update(eventMsg(step.ev))
		if got := m.fraction(); got != step.fraction {
			t.Fatalf("step %d: fraction = %v, want %v", i, got, step.fraction)
		}
	}
	if m.failed != 1 {
		t.Fatalf("failed = %d, want 1", m.failed)
	}

	m.Update(eventMsg(driver.Event{Stage: driver.StageLoad, Status: driver.StatusDone, Elapsed: 2 * time.Second}))
	m.Update(closedMsg{})
	view := m.View()
	for _, want := range []string{"done: check: 2 file(s), 1 failed in 2s", "a.toml", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.toml", 20, "short.toml"},
		{"a/very/long/path.toml", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
