// Package report inspects a whole document at once: every finding, the
// caption text of every line with its on-screen interval, and an error
// summary.
package report

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/zsiec/sccinspect/internal/diag"
	"github.com/zsiec/sccinspect/internal/document"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
)

// Schema is the JSON schema a marshalled Report conforms to.
//
//go:embed schema.json
var Schema []byte

// Report is the inspection result for one document.
type Report struct {
	Key        string  `json:"key"`
	FrameRate  string  `json:"frame_rate"`
	Sampled    int     `json:"timestamps_sampled"`
	TotalLines int     `json:"total_lines"`
	Lines      []Line  `json:"lines"`
	Summary    Summary `json:"summary"`
}

// Line is a document line with something to show: findings, caption text,
// or both. Start and End are set when the line's caption was timed.
type Line struct {
	Number    int            `json:"line"`
	Timestamp string         `json:"timestamp,omitempty"`
	Findings  []diag.Finding `json:"findings,omitempty"`
	Caption   []scc.Segment  `json:"caption,omitempty"`
	Start     string         `json:"start,omitempty"`
	End       string         `json:"end,omitempty"`
}

// Summary counts problems across the document. ErrorTimecodes lists the
// timestamps of lines with parity errors or overflows, in document order.
type Summary struct {
	ParityErrors      int      `json:"parity_errors"`
	Overflows         int      `json:"buffer_overflows"`
	InvalidTimestamps int      `json:"invalid_timestamps"`
	InvalidCodes      int      `json:"invalid_codes"`
	ErrorTimecodes    []string `json:"error_timecodes"`
}

// Build inspects every line of d.
func Build(d *document.Document) Report {
	r := Report{
		Key:        d.Key,
		FrameRate:  d.Rate.String(),
		Sampled:    d.RateSamples,
		TotalLines: d.LineCount(),
		Lines:      []Line{},
		Summary:    Summary{ErrorTimecodes: []string{}},
	}
	times := d.TimeMap()

	for n := 0; n < d.LineCount(); n++ {
		text := d.Line(n)
		l := Line{Number: n, Findings: d.Findings(n)}
		ts, hasTS := timecode.Find(text)
		if hasTS {
			l.Timestamp = ts.Text
		}

		flagged := false
		for _, f := range l.Findings {
			switch f.Kind {
			case diag.ParityError:
				r.Summary.ParityErrors++
				flagged = true
			case diag.BufferOverflow:
				r.Summary.Overflows++
				flagged = true
			case diag.InvalidTimestamp:
				r.Summary.InvalidTimestamps++
			case diag.InvalidHex:
				r.Summary.InvalidCodes++
			}
		}
		if flagged && hasTS {
			r.Summary.ErrorTimecodes = append(r.Summary.ErrorTimecodes, ts.Text)
		}

		if strings.TrimSpace(text) != "" {
			l.Caption = scc.Annotate(text)
		}
		if iv, ok := times[n]; ok && len(l.Caption) > 0 {
			if iv.Start != nil {
				l.Start = iv.Start.String()
			}
			if iv.End != nil {
				l.End = iv.End.String()
			}
		}

		if len(l.Findings) > 0 || len(l.Caption) > 0 {
			r.Lines = append(r.Lines, l)
		}
	}
	return r
}

// HasErrors reports whether any parity error or overflow was found.
func (s Summary) HasErrors() bool { return s.ParityErrors > 0 || s.Overflows > 0 }

// String renders the summary banner, for example
// "ERRORS: 2 parity errors, 1 buffer overflow\nErrors at: 00:00:01:00".
// It is empty for a clean document.
func (s Summary) String() string {
	if !s.HasErrors() {
		return ""
	}
	var parts []string
	if s.ParityErrors > 0 {
		parts = append(parts, countOf(s.ParityErrors, "parity error"))
	}
	if s.Overflows > 0 {
		parts = append(parts, countOf(s.Overflows, "buffer overflow"))
	}
	out := "ERRORS: " + strings.Join(parts, ", ")
	if len(s.ErrorTimecodes) > 0 {
		out += "\nErrors at: " + strings.Join(s.ErrorTimecodes, ", ")
	}
	return out
}

func countOf(n int, noun string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// Annotation renders a line's caption as shown beside it in an editor:
// the timing prefix when both bounds are known, then the text with row
// changes shown as the newline mark.
func (l Line) Annotation() string {
	var b strings.Builder
	if l.Start != "" && l.End != "" {
		fmt.Fprintf(&b, " | %s -> %s | ", l.Start, l.End)
	}
	b.WriteString(scc.PlainText(l.Caption))
	return b.String()
}

// WriteText writes a human-readable rendition of r.
func WriteText(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "%s: %d lines, frame rate %s\n", r.Key, r.TotalLines, r.FrameRate); err != nil {
		return err
	}
	if banner := r.Summary.String(); banner != "" {
		if _, err := fmt.Fprintln(w, banner); err != nil {
			return err
		}
	}
	for _, l := range r.Lines {
		if len(l.Caption) > 0 {
			if _, err := fmt.Fprintf(w, "%5d %s\n", l.Number+1, l.Annotation()); err != nil {
				return err
			}
		}
		for _, f := range l.Findings {
			if _, err := fmt.Fprintf(w, "%5d   [%d:%d] %s\n", l.Number+1, f.Start, f.End, diag.Message(f.Kind)); err != nil {
				return err
			}
		}
	}
	return nil
}
