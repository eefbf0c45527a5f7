package document

import (
	"fmt"

	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/diag"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
	"github.com/zsiec/sccinspect/internal/tooltip"
)

// Hover is the tooltip for a position in the document. Anchor is the byte
// offset in the line the tooltip attaches to: the finding start for
// errors, otherwise the line's timestamp.
type Hover struct {
	Line   int       `json:"line"`
	Anchor int       `json:"anchor"`
	Text   string    `json:"text"`
	Error  diag.Kind `json:"error,omitempty"`
}

// Hover composes the tooltip for byte offset col of line n. Positions over
// a finding describe the finding; positions over a code word describe the
// word, its packet time and the buffer after it. Lines without a timestamp
// and positions outside any word yield false.
func (d *Document) Hover(n, col int) (Hover, bool) {
	line := d.Line(n)
	findings := d.Findings(n)
	if f, ok := diag.At(findings, col); ok {
		return Hover{Line: n, Anchor: f.Start, Text: diag.Message(f.Kind), Error: f.Kind}, true
	}

	m, ok := timecode.Find(line)
	if !ok {
		return Hover{}, false
	}
	base, err := timecode.Parse(m.Text)
	if err != nil {
		return Hover{}, false
	}
	p, ok := scc.PacketAt(line, col)
	if !ok {
		return Hover{}, false
	}

	ev := cea608.Decode(p.Text)
	snap := d.Snapshot(n, p.Index)
	text := tooltip.Format(tooltip.Tooltip{
		Event:          cea608.Summary(ev, p.Text),
		Time:           d.timeDescription(m.Text, base, p.Index),
		Buffer:         snap.Text,
		HighlightStart: snap.HighlightStart,
		HighlightEnd:   snap.HighlightEnd,
		IsControl:      cea608.IsControlLike(ev),
		Overflow:       hasOverflow(findings),
		Width:          d.opts.TooltipWidth,
	})
	return Hover{Line: n, Anchor: m.Start, Text: text}, true
}

func (d *Document) timeDescription(raw string, base timecode.Timestamp, packet int) string {
	if !d.Rate.Known() {
		return fmt.Sprintf("TIME: %s (+%d)", raw, packet)
	}
	at, _ := timecode.AddFrames(base, packet, d.Rate)
	unit := "packets"
	if packet == 1 {
		unit = "packet"
	}
	return fmt.Sprintf("TIME: %s (+%d %s)", at, packet, unit)
}

func hasOverflow(findings []diag.Finding) bool {
	for _, f := range findings {
		if f.Kind == diag.BufferOverflow {
			return true
		}
	}
	return false
}
