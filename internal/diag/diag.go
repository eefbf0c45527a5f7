// Package diag finds problems in SCC lines: malformed timestamps, code
// words that fail parity, and caption data that cannot be transmitted
// before the next timestamp is due.
package diag

import (
	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
)

// Kind classifies a finding.
type Kind string

const (
	InvalidTimestamp Kind = "invalid_timestamp"
	ParityError      Kind = "parity_error"
	InvalidHex       Kind = "invalid_hex"
	BufferOverflow   Kind = "cc_buffer_overflow"
)

// Finding is a problem located at byte offsets [Start, End) of a line.
type Finding struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Kind  Kind `json:"kind"`
}

// Covers reports whether byte offset col is inside the finding.
func (f Finding) Covers(col int) bool { return f.Start <= col && col < f.End }

// Message returns the hover text for a finding kind.
func Message(k Kind) string {
	switch k {
	case ParityError:
		return "PARITY ERROR: Odd parity check failed"
	case BufferOverflow:
		return "CC BUFFER OVERFLOW: Packets extend past next timestamp"
	case InvalidTimestamp:
		return "Invalid timestamp"
	default:
		return "Invalid code"
	}
}

// Detector checks lines of one document. Overflow detection needs a known
// Rate; without one only timestamps and code words are validated.
type Detector struct {
	Rate timecode.FrameRate
}

// Line returns the findings for text. next is the line two below text,
// where the following timestamp of a conventionally spaced SCC file sits;
// pass "" when there is none.
func (d Detector) Line(text, next string) []Finding {
	var out []Finding

	ts, hasTS := timecode.Find(text)
	if hasTS && !timecode.ValidString(ts.Text) {
		out = append(out, Finding{Start: ts.Start, End: ts.End, Kind: InvalidTimestamp})
	}

	var (
		base, limit timecode.Timestamp
		timed       bool
	)
	if hasTS && d.Rate.Known() {
		if nextTS, ok := timecode.Find(next); ok {
			var err1, err2 error
			base, err1 = timecode.Parse(ts.Text)
			limit, err2 = timecode.Parse(nextTS.Text)
			timed = err1 == nil && err2 == nil
		}
	}

	packet := 0
	overflow := false
	for _, w := range scc.Words(text) {
		if e, ok := cea608.Decode(w.Text).(cea608.Error); ok {
			out = append(out, Finding{Start: w.Start, End: w.End, Kind: errorKind(e)})
			continue
		}
		if !timed || w.IsDuplicate() {
			continue
		}
		at, _ := timecode.AddFrames(base, packet, d.Rate)
		if timecode.Compare(at, limit) >= 0 {
			out = append(out, Finding{Start: w.Start, End: w.End, Kind: BufferOverflow})
			overflow = true
		}
		packet++
	}

	if overflow {
		out = append(out, Finding{Start: ts.Start, End: ts.End, Kind: BufferOverflow})
	}
	return out
}

// At returns the first finding covering byte offset col.
func At(findings []Finding, col int) (Finding, bool) {
	for _, f := range findings {
		if f.Covers(col) {
			return f, true
		}
	}
	return Finding{}, false
}

func errorKind(e cea608.Error) Kind {
	if e.Reason == cea608.ParityError {
		return ParityError
	}
	return InvalidHex
}
