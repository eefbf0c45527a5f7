package scc

import (
	"strings"

	"github.com/zsiec/sccinspect/internal/cea608"
)

// Code is a decoded word of a line. Packet is the packet index of the word,
// or of its first copy for duplicates.
type Code struct {
	Word   HexWord
	Event  cea608.Event
	Packet int
}

// DecodeLine decodes every word of line, duplicates included.
func DecodeLine(line string) []Code {
	var out []Code
	packet := -1
	t := NewTokenizer(line)
	for {
		w, ok := t.Next()
		if !ok {
			return out
		}
		if !w.IsDuplicate() {
			packet++
		}
		out = append(out, Code{Word: w, Event: cea608.Decode(w.Text), Packet: packet})
	}
}

// LineSource gives indexed access to the lines of a document.
type LineSource interface {
	LineCount() int
	Line(i int) string
}

// Lines is an in-memory LineSource.
type Lines []string

func (l Lines) LineCount() int { return len(l) }

// Line returns line i, or "" when i is out of range.
func (l Lines) Line(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

// SplitLines splits document text into lines, accepting LF and CRLF
// endings.
func SplitLines(text string) Lines {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Lines(strings.Split(text, "\n"))
}

// Preceding returns up to limit lines immediately before line n, in
// document order.
func Preceding(src LineSource, n, limit int) []string {
	n = min(max(n, 0), src.LineCount())
	lo := min(max(n-limit, 0), n)
	out := make([]string, 0, n-lo)
	for i := lo; i < n; i++ {
		out = append(out, src.Line(i))
	}
	return out
}
