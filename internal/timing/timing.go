// Package timing derives when each caption line of a document is shown and
// cleared, by following the pop-on lifecycle: text is loaded off screen,
// displayed by End Of Caption and removed by Erase Displayed Memory or by
// the next caption taking its place.
package timing

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
)

// Interval is the on-screen span of a caption line. End is nil while the
// caption has not been cleared by the end of the document.
type Interval struct {
	Start *timecode.Timestamp
	End   *timecode.Timestamp
}

// Map is keyed by zero-based line number.
type Map map[int]Interval

// Build scans src once and times every line that loads caption content.
// Lines without text or PAC codes are absent. An unknown or invalid rate
// yields an empty map.
func Build(src scc.LineSource, rate timecode.FrameRate) Map {
	m := make(Map)
	if !rate.Known() {
		return m
	}

	var pending, active []int
	for n := 0; n < src.LineCount(); n++ {
		line := src.Line(n)
		if strings.TrimSpace(line) == "" {
			continue
		}
		match, ok := timecode.Find(line)
		if !ok {
			continue
		}
		base, err := timecode.Parse(match.Text)
		if err != nil {
			continue
		}

		loading := false
		for _, p := range scc.Packets(line) {
			ev := cea608.Decode(p.Text)
			switch ev.(type) {
			case cea608.Text, cea608.PAC:
				if !loading {
					pending = append(pending, n)
					loading = true
				}
			}

			c, ok := ev.(cea608.Control)
			if !ok {
				continue
			}
			switch {
			case c.IsEOC():
				when := at(base, p.Index, rate)
				for _, l := range active {
					if iv, ok := m[l]; ok {
						iv.End = when
						m[l] = iv
					}
				}
				for _, l := range pending {
					iv := m[l]
					iv.Start = when
					m[l] = iv
				}
				active, pending = pending, nil
				loading = false
			case c.IsEDM():
				when := at(base, p.Index, rate)
				for _, l := range active {
					if iv, ok := m[l]; ok {
						iv.End = when
						m[l] = iv
					}
				}
				active = nil
			case c.IsRCL(), c.IsENM():
				pending = nil
				loading = false
			}
		}
	}
	return m
}

func at(base timecode.Timestamp, packet int, rate timecode.FrameRate) *timecode.Timestamp {
	ts, _ := timecode.AddFrames(base, packet, rate)
	return &ts
}

// Lines returns the line numbers of m in ascending order.
func (m Map) Lines() []int {
	lines := make([]int, 0, len(m))
	for l := range m {
		lines = append(lines, l)
	}
	slices.Sort(lines)
	return lines
}

// Format renders the interval as " | start -> end | ", the prefix shown
// before a line's caption text. Missing bounds render as "--".
func (iv Interval) Format() string {
	return " | " + tsOrDash(iv.Start) + " -> " + tsOrDash(iv.End) + " | "
}

// Complete reports whether both bounds are known.
func (iv Interval) Complete() bool { return iv.Start != nil && iv.End != nil }

func tsOrDash(ts *timecode.Timestamp) string {
	if ts == nil {
		return "--"
	}
	return ts.String()
}
