package timing

import (
	"testing"

	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
)

func TestBuildSameLine(t *testing.T) {
	t.Parallel()
	m := Build(scc.Lines{"00:01:01;03\t9420 94ae c4e9 942f 942c"}, timecode.Rate2997DF)
	iv, ok := m[0]
	if !ok {
		t.Fatal("line 0 missing from map")
	}
	if got := iv.Start.String(); got != "00:01:01;06" {
		t.Errorf("start: got %q, want %q", got, "00:01:01;06")
	}
	if got := iv.End.String(); got != "00:01:01;07" {
		t.Errorf("end: got %q, want %q", got, "00:01:01;07")
	}
}

func TestBuildClearedOnLaterLine(t *testing.T) {
	t.Parallel()
	src := scc.Lines{
		"00:01:01;03\t9420 94ae c4e9 942f",
		"",
		"00:01:02;09\t942c",
	}
	m := Build(src, timecode.Rate2997DF)
	iv := m[0]
	if !iv.Complete() {
		t.Fatalf("interval incomplete: %+v", iv)
	}
	if iv.Start.String() != "00:01:01;06" || iv.End.String() != "00:01:02;09" {
		t.Errorf("got %s -> %s, want 00:01:01;06 -> 00:01:02;09", iv.Start, iv.End)
	}
	if _, ok := m[2]; ok {
		t.Error("control-only line should be absent")
	}
}

func TestBuild2398(t *testing.T) {
	t.Parallel()
	src := scc.Lines{
		"00:05:55:12\t94ae 94ae 9420 9420 94d6 94d6 97a2 97a2 c8e5 792c 9470 9470 d3ef 2049 20f7 6173 20f4 68e9 6e6b e96e 6720 f468 e973 206d eff2 6e67 2c80 942f 942f",
		"",
		"00:05:58:15\t942c 942c",
	}
	m := Build(src, timecode.Rate2398)
	iv, ok := m[0]
	if !ok || !iv.Complete() {
		t.Fatalf("line 0: got %+v", iv)
	}
	if got := iv.Format(); got != " | 00:05:56:06 -> 00:05:58:15 | " {
		t.Errorf("got %q", got)
	}
}

func TestBuildCaptionReplacedByNext(t *testing.T) {
	t.Parallel()
	src := scc.Lines{
		"00:00:01:00\t9420 9420 94ae 94ae 9470 9470 c1c2 942f 942f",
		"",
		"00:00:03:00\t9420 9420 94ae 94ae 9470 9470 c4c4 942f 942f",
	}
	m := Build(src, timecode.Rate2997NDF)
	if got := m[0].End.String(); got != "00:00:03:04" {
		t.Errorf("line 0 end: got %q, want %q", got, "00:00:03:04")
	}
	if got := m[2].Start.String(); got != "00:00:03:04" {
		t.Errorf("line 2 start: got %q, want %q", got, "00:00:03:04")
	}
	if m[2].End != nil {
		t.Errorf("line 2 end: got %s, want nil", m[2].End)
	}
	if got := m[2].Format(); got != " | 00:00:03:04 -> -- | " {
		t.Errorf("format: got %q", got)
	}
	lines := m.Lines()
	if len(lines) != 2 || lines[0] != 0 || lines[1] != 2 {
		t.Errorf("lines: got %v, want [0 2]", lines)
	}
}

func TestBuildDiscardedByENM(t *testing.T) {
	t.Parallel()
	src := scc.Lines{
		"00:00:01:00\t9470 9470 c1c2",
		"00:00:02:00\t94ae 94ae 942f 942f",
	}
	m := Build(src, timecode.Rate2997NDF)
	if len(m) != 0 {
		t.Errorf("got %v, want empty map", m)
	}
}

func TestBuildUnknownRate(t *testing.T) {
	t.Parallel()
	src := scc.Lines{"00:01:01;03\t9420 94ae c4e9 942f 942c"}
	for _, rate := range []timecode.FrameRate{timecode.RateUnknown, timecode.RateInvalid} {
		if m := Build(src, rate); len(m) != 0 {
			t.Errorf("%s: got %d entries, want 0", rate, len(m))
		}
	}
}
