// Package buffer reconstructs the non-displayed caption memory as it stands
// at a given code word, for display in hover tooltips.
package buffer

import (
	"strings"

	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/scc"
)

// DefaultMaxDepth is the number of preceding lines scanned when no limit is
// configured.
const DefaultMaxDepth = 1000

// Snapshot is the reconstructed buffer text. The highlight marks the runes
// contributed by the target word; both bounds are -1 when nothing is
// highlighted.
type Snapshot struct {
	Text           string
	HighlightStart int
	HighlightEnd   int
}

// HasHighlight reports whether the snapshot marks a range.
func (s Snapshot) HasHighlight() bool {
	return s.HighlightStart >= 0 && s.HighlightEnd > s.HighlightStart
}

var empty = Snapshot{HighlightStart: -1, HighlightEnd: -1}

// Reconstructor replays code words into a caption buffer.
type Reconstructor struct {
	// MaxDepth bounds the backward scan over preceding lines. Zero or less
	// means DefaultMaxDepth.
	MaxDepth int
}

// Snapshot returns the buffer after the packet at index target of line has
// been applied. preceding holds the lines before line in document order;
// only those after the most recent Erase Non-Displayed Memory are replayed.
func (r Reconstructor) Snapshot(line string, target int, preceding []string) Snapshot {
	var st state
	for _, prev := range r.window(preceding) {
		for _, p := range scc.Packets(prev) {
			st.apply(cea608.Decode(p.Text))
		}
	}

	hlStart, hlEnd := -1, -1
	for _, p := range scc.Packets(line) {
		if p.Index > target {
			break
		}
		ev := cea608.Decode(p.Text)
		if p.Index != target {
			st.apply(ev)
			continue
		}

		if pac, ok := ev.(cea608.PAC); ok {
			marker := pac.Marker()
			if st.initial == nil {
				return Snapshot{Text: marker, HighlightStart: 0, HighlightEnd: runeLen(marker)}
			}
			prefix := st.initial.Marker()
			start := runeLen(prefix) + len(st.text)
			return Snapshot{
				Text:           prefix + string(st.text) + marker,
				HighlightStart: start,
				HighlightEnd:   start + runeLen(marker),
			}
		}

		switch ev.(type) {
		case cea608.Text, cea608.MidRow, cea608.Indent:
			st.prepare(ev)
			hlStart = len(st.text)
			st.push(ev)
			hlEnd = len(st.text)
		default:
			st.apply(ev)
		}
	}

	if st.initial == nil {
		if len(st.text) == 0 {
			return empty
		}
		return Snapshot{Text: string(st.text), HighlightStart: hlStart, HighlightEnd: hlEnd}
	}

	prefix := st.initial.Marker()
	out := Snapshot{Text: prefix + string(st.text), HighlightStart: -1, HighlightEnd: -1}
	if hlStart >= 0 {
		out.HighlightStart = runeLen(prefix) + hlStart
		out.HighlightEnd = runeLen(prefix) + hlEnd
	}
	return out
}

// window returns the tail of preceding that starts at the nearest line
// containing ENM, limited to MaxDepth lines.
func (r Reconstructor) window(preceding []string) []string {
	depth := r.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	lo := max(0, len(preceding)-depth)
	for i := len(preceding) - 1; i >= lo; i-- {
		if containsENM(preceding[i]) {
			return preceding[i:]
		}
	}
	return preceding[lo:]
}

func containsENM(line string) bool {
	for _, p := range scc.Packets(line) {
		if c, ok := cea608.Decode(p.Text).(cea608.Control); ok && c.IsENM() {
			return true
		}
	}
	return false
}

type state struct {
	text    []rune
	initial *cea608.PAC
}

// prepare performs the implicit backspace of an extended character so the
// highlight covers only the replacement glyph.
func (s *state) prepare(ev cea608.Event) {
	if t, ok := ev.(cea608.Text); ok && t.Extended {
		s.backspace()
	}
}

func (s *state) apply(ev cea608.Event) {
	s.prepare(ev)
	s.push(ev)
}

func (s *state) push(ev cea608.Event) {
	switch e := ev.(type) {
	case cea608.PAC:
		if s.initial == nil {
			s.initial = &e
			return
		}
		s.text = append(s.text, []rune(e.Marker())...)
	case cea608.Text:
		s.text = append(s.text, []rune(e.Chars)...)
	case cea608.MidRow:
		s.text = append(s.text, []rune("<i>")...)
	case cea608.Indent:
		s.text = append(s.text, []rune(strings.Repeat(" ", e.Spaces))...)
	case cea608.Control:
		switch {
		case e.IsBackspace():
			s.backspace()
		case e.IsENM(), e.IsRCL():
			s.text = s.text[:0]
			s.initial = nil
		}
	}
}

func (s *state) backspace() {
	if len(s.text) > 0 {
		s.text = s.text[:len(s.text)-1]
	}
}

func runeLen(s string) int { return len([]rune(s)) }
