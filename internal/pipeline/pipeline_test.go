package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/zsiec/sccinspect/internal/document"
	"github.com/zsiec/sccinspect/internal/report"
)

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.scc", "00:00:01:00\t9420 9420 c1c2 942f 942f\n")
	broken := writeFile(t, dir, "broken.scc", "00:00:01:00\t9420 9520 c1c2\n")
	missing := filepath.Join(dir, "missing.scc")

	var mu sync.Mutex
	got := map[string]report.Report{}
	sink := SinkFunc(func(path string, r report.Report) {
		mu.Lock()
		defer mu.Unlock()
		got[path] = r
	})

	p := New(document.Options{}, 2, sink, nil)
	if err := p.Run(context.Background(), []string{clean, broken, missing}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("delivered %d reports, want 2", len(got))
	}
	if got[clean].Summary.HasErrors() {
		t.Errorf("clean file reported errors: %+v", got[clean].Summary)
	}
	if got[broken].Summary.ParityErrors != 1 {
		t.Errorf("broken file parity errors: got %d, want 1", got[broken].Summary.ParityErrors)
	}

	st := p.Stats()
	if st.Files != 2 || st.Failed != 1 || st.WithErrors != 1 || st.ParityErrors != 1 {
		t.Errorf("stats: got %+v", st)
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "a.scc", "00:00:01:00\t9420 9420\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(document.Options{}, 1, nil, nil)
	if err := p.Run(ctx, []string{path}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if p.Stats().Files != 0 {
		t.Errorf("files inspected after cancel: %d", p.Stats().Files)
	}
}

func TestNewDefaultsWorkers(t *testing.T) {
	t.Parallel()
	p := New(document.Options{}, 0, nil, nil)
	if p.workers <= 0 {
		t.Errorf("workers: got %d, want > 0", p.workers)
	}
}

func TestRunCompletesWithoutSink(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "one.scc", "00:00:01:00\t9420 9420 c1c2 942f 942f\n")

	p := New(document.Options{}, 1, nil, nil)
	if err := p.Run(context.Background(), []string{path}); err != nil {
		t.Fatalf("Run: got %v, want nil", err)
	}
	if st := p.Stats(); st.Files != 1 || st.Failed != 0 {
		t.Errorf("stats: got %+v", st)
	}
}
