package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"svcore/internal/diag"
	"svcore/internal/snapshot"
)

const goodDecls = `
[[integral]]
name = "word_t"
packed = [[31, 0]]

[[enum]]
name = "state_t"
base = "word_t"
[[enum.member]]
name = "IDLE"
[[enum.member]]
name = "BUSY"
`

const badDecls = `
[[typedef]]
name = "t"
target = "missing_t"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) final(file string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last Status
	for _, ev := range s.events {
		if ev.File == file {
			last = ev.Status
		}
	}
	return last
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.toml", goodDecls)
	b := writeFile(t, dir, "sub/b.toml", goodDecls)
	writeFile(t, dir, "notes.txt", "ignored")

	files, err := ListFiles([]string{dir, a})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Fatalf("files = %v", files)
	}
}

func TestCheckFilesParallel(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.toml", goodDecls)
	bad := writeFile(t, dir, "bad.toml", badDecls)
	missing := filepath.Join(dir, "missing.toml")
	snapDir := filepath.Join(dir, "snap")
	sink := &recordingSink{}

	results, err := CheckFiles(context.Background(), []string{good, bad, missing}, Options{
		Jobs:        2,
		Sink:        sink,
		SnapshotDir: snapDir,
		Timings:     true,
	})
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	byPath := make(map[string]FileResult, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}

	g := byPath[good]
	if g.Failed() || g.Snapshot == "" {
		t.Fatalf("good.toml failed or wrote no snapshot: %+v", g)
	}
	snap, err := snapshot.ReadFile(g.Snapshot)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if e, ok := snap.Lookup("state_t"); !ok || len(e.Members) != 2 {
		t.Fatalf("snapshot entry = %+v", e)
	}

	b := byPath[bad]
	if !b.Failed() || b.Snapshot != "" {
		t.Fatalf("bad.toml should fail without snapshot: %+v", b)
	}
	m := byPath[missing]
	if m.Decl != nil || m.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing file not reported: %+v", m)
	}

	if got := sink.final(good); got != StatusDone {
		t.Fatalf("good final status = %s", got)
	}
	if got := sink.final(bad); got != StatusError {
		t.Fatalf("bad final status = %s", got)
	}

	merged := Merge(results, 0)
	var timings int
	for _, d := range merged.Items() {
		if d.Code == diag.ObsTimings {
			timings++
			if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"kind":"check"`) {
				t.Fatalf("timing payload = %+v", d.Notes)
			}
		}
	}
	if timings != 2 {
		t.Fatalf("timing diagnostics = %d, want 2", timings)
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.toml", goodDecls)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckFiles(ctx, []string{path}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSnapshotNameIsStable(t *testing.T) {
	a := snapshotName("rtl/a/pkg.toml")
	if a != snapshotName("rtl/a/pkg.toml") {
		t.Fatalf("name not stable")
	}
	if a == snapshotName("rtl/b/pkg.toml") {
		t.Fatalf("different directories collide")
	}
	if !strings.HasPrefix(a, "pkg-") || !strings.HasSuffix(a, ".mp") {
		t.Fatalf("name = %s", a)
	}
}
