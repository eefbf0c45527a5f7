// Package tooltip lays out the hover text shown for a code word: a headline,
// the packet time and the reconstructed buffer with carets under the runes
// the word produced.
package tooltip

import (
	"strings"
)

// DefaultWidth is the wrap width in runes.
const DefaultWidth = 60

const (
	bufferPrefix = "BUF : "
	indent       = "      "
	overflowLine = "!!! BUFFER OVERFLOW !!!"
)

// Tooltip holds the parts of a hover tooltip.
type Tooltip struct {
	Event          string
	Time           string
	Buffer         string
	HighlightStart int
	HighlightEnd   int
	// IsControl marks words without printable output; the caret is then
	// drawn just past the end of the buffer.
	IsControl bool
	Overflow  bool
	// Width is the wrap width; zero means DefaultWidth.
	Width int
}

// Format renders t as newline-separated text.
func Format(t Tooltip) string {
	width := t.Width
	if width <= 0 {
		width = DefaultWidth
	}
	rule := strings.Repeat("-", width)

	text, marks := withMarkers(t.Buffer, t.HighlightStart, t.HighlightEnd, t.IsControl)
	wrapped := Wrap(text, marks, width)

	var b strings.Builder
	b.WriteString(t.Event)
	b.WriteString("\n" + rule + "\n")
	b.WriteString(t.Time)
	b.WriteString("\n" + rule + "\n")
	if t.Overflow {
		b.WriteString(overflowLine + "\n")
	}
	b.WriteString(strings.Join(wrapped, "\n"))
	return b.String()
}

// withMarkers prefixes the buffer and builds the parallel caret line.
func withMarkers(buffer string, hlStart, hlEnd int, control bool) (string, string) {
	full := []rune(bufferPrefix + buffer)
	if control && buffer != "" {
		full = append(full, ' ')
	}

	marks := []rune(strings.Repeat(" ", len(full)))
	off := len([]rune(bufferPrefix))
	switch {
	case hlStart >= 0 && hlEnd > hlStart:
		for i := hlStart + off; i < min(hlEnd+off, len(marks)); i++ {
			marks[i] = '^'
		}
	case control && buffer != "":
		marks[len(marks)-1] = '^'
	}
	return string(full), string(marks)
}

type segment struct {
	text      string
	marks     string
	hasCarets bool
}

// Wrap splits text at width runes, indenting continuation lines by six
// spaces. marks is a caret line aligned with text. A caret line is printed
// under its segment only for the last segment; otherwise the carets are
// right-aligned onto the following segment's line to keep the tooltip
// compact.
func Wrap(text, marks string, width int) []string {
	tr, mr := []rune(text), []rune(marks)
	var segs []segment
	first := true
	for len(tr) > 0 {
		limit := width
		if !first {
			limit = width - len(indent)
		}
		n := min(limit, len(tr))
		ts := string(tr[:n])
		ms := string(mr[:min(n, len(mr))])
		tr = tr[n:]
		mr = mr[min(n, len(mr)):]

		s := segment{text: ts, marks: ms, hasCarets: strings.ContainsRune(ms, '^')}
		if !first {
			s.text = indent + s.text
			s.marks = indent + s.marks
		}
		segs = append(segs, s)
		first = false
	}

	var lines []string
	for i := 0; i < len(segs); {
		s := segs[i]
		lines = append(lines, s.text)
		if !s.hasCarets {
			i++
			continue
		}
		if i == len(segs)-1 {
			lines = append(lines, s.marks)
			i++
			continue
		}
		next := segs[i+1]
		carets := strings.TrimLeft(s.marks, " ")
		pad := max(0, width-runeCount(next.text)-runeCount(carets))
		lines = append(lines, next.text+strings.Repeat(" ", pad)+carets)
		if next.hasCarets {
			lines = append(lines, next.marks)
		}
		i += 2
	}
	return lines
}

func runeCount(s string) int { return len([]rune(s)) }
