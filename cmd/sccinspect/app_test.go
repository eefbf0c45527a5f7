package main

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/pem"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zsiec/sccinspect/internal/certs"
	"github.com/zsiec/sccinspect/internal/config"
	"github.com/zsiec/sccinspect/internal/report"
)

const sample = "Scenarist_SCC V1.0\n" +
	"\n" +
	"00:00:01:00\t9420 9420 c1c2 942f 942f\n" +
	"\n" +
	"00:00:03:00\t942c 942c\n"

// Line 2 has a parity error in 9520.
const broken = "Scenarist_SCC V1.0\n" +
	"\n" +
	"00:00:01:00\t9420 9420 9520 c1c2 942f 942f\n"

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a, err := newApp(config.Defaults(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), &out)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return a, &out
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewAppRejectsBadRate(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Inspector.FrameRate = "60"
	if _, err := newApp(cfg, nil, nil); err == nil {
		t.Error("expected error for unknown frame rate")
	}
}

func TestDecodeArgs(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	if err := a.decode(&decodeCmd{Words: []string{"9420", "9420", "c8e9"}}, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "9420  [Pair] Resume Caption Loading (RCL)\n" +
		"c8e9  CC2 Text: \"Hi\"\n" +
		"=> Hi\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeStdin(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	in := strings.NewReader("8080\n9520\n")
	if err := a.decode(&decodeCmd{}, in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "8080  Null / Padding\n9520  Error: Parity Error\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTimeMap(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	path := writeFile(t, "show.scc", sample)
	if err := a.timemap(&timemapCmd{File: path}); err != nil {
		t.Fatalf("timemap: %v", err)
	}
	want := "    3 | 00:00:01:02 -> 00:00:03:00 | AB\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTimeMapJSON(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	path := writeFile(t, "show.scc", sample)
	if err := a.timemap(&timemapCmd{File: path, JSON: true}); err != nil {
		t.Fatalf("timemap: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0]["start"] != "00:00:01:02" || entries[0]["text"] != "AB" {
		t.Errorf("got %v", entries)
	}
}

func TestHover(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	path := writeFile(t, "show.scc", sample)
	// Line 3, column 24 is inside c1c2.
	if err := a.hover(&hoverCmd{File: path, Line: 3, Col: 24}); err != nil {
		t.Fatalf("hover: %v", err)
	}
	if !strings.HasPrefix(out.String(), `TEXT: "AB" (c1c2)`) {
		t.Errorf("got %q", out.String())
	}

	if err := a.hover(&hoverCmd{File: path, Line: 1, Col: 1}); err == nil {
		t.Error("expected error for header line")
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	clean := writeFile(t, "clean.scc", sample)
	if err := a.inspect(context.Background(), &inspectCmd{Files: []string{clean}}); err != nil {
		t.Fatalf("inspect clean: %v", err)
	}
	if !strings.Contains(out.String(), "clean.scc: 6 lines, frame rate 23.98") {
		t.Errorf("got %q", out.String())
	}
}

func TestInspectFindings(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	path := writeFile(t, "broken.scc", broken)
	err := a.inspect(context.Background(), &inspectCmd{Files: []string{path}, JSON: true})
	if !errors.Is(err, exitFindings) {
		t.Fatalf("got %v, want exitFindings", err)
	}
	var r report.Report
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Summary.ParityErrors != 1 {
		t.Errorf("parity errors: got %d, want 1", r.Summary.ParityErrors)
	}
}

func TestInspectMissingFile(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	missing := filepath.Join(t.TempDir(), "nope.scc")
	if err := a.inspect(context.Background(), &inspectCmd{Files: []string{missing}}); err == nil {
		t.Error("expected error for unreadable file")
	}
}

func TestReplay(t *testing.T) {
	t.Parallel()
	a, out := newTestApp(t)
	path := writeFile(t, "show.scc", sample)
	if err := a.replay(context.Background(), &replayCmd{File: path}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line != "" && !strings.Contains(line, " CC1 ") {
			t.Errorf("unexpected frame line %q", line)
		}
	}
}

func TestWriteCertFile(t *testing.T) {
	t.Parallel()
	cert, err := certs.Generate(time.Hour, "captions.local")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cert.pem")
	if err := writeCertFile(cert, path); err != nil {
		t.Fatalf("writeCertFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	block, _ := pem.Decode(data)
	if block == nil || !bytes.Equal(block.Bytes, cert.TLSCert.Certificate[0]) {
		t.Errorf("got %q, want the generated certificate", data)
	}

	if err := writeCertFile(cert, filepath.Join(t.TempDir(), "missing", "cert.pem")); err == nil {
		t.Error("writeCertFile into a missing directory: got nil error")
	}
}
