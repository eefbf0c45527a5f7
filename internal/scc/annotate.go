package scc

import (
	"fmt"
	"strings"

	"github.com/zsiec/sccinspect/internal/cea608"
)

// Style is the rendering style of an annotation segment.
type Style uint8

const (
	Normal Style = iota
	Italic
	Newline
)

func (s Style) String() string {
	switch s {
	case Italic:
		return "italic"
	case Newline:
		return "newline"
	default:
		return "normal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(b []byte) error {
	switch string(b) {
	case "normal":
		*s = Normal
	case "italic":
		*s = Italic
	case "newline":
		*s = Newline
	default:
		return fmt.Errorf("scc: unknown style %q", b)
	}
	return nil
}

// NewlineMark stands in for a row change inside one line.
const NewlineMark = "⏎"

// Segment is a run of caption text sharing one style.
type Segment struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Annotate renders the caption text carried by line. A PAC after earlier
// content starts a new row and is shown as [NewlineMark]. Lines carrying
// only control codes yield nil.
func Annotate(line string) []Segment {
	var (
		segments   []Segment
		current    []rune
		italic     bool
		hasContent bool
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		segments = append(segments, Segment{Text: string(current), Style: styleFor(italic)})
		current = current[:0]
	}

	for _, p := range Packets(line) {
		switch ev := cea608.Decode(p.Text).(type) {
		case cea608.Text:
			if ev.Extended && len(current) > 0 {
				current = current[:len(current)-1]
			}
			current = append(current, []rune(ev.Chars)...)
			hasContent = true
		case cea608.PAC:
			flush()
			if len(segments) > 0 {
				segments = append(segments, Segment{Text: NewlineMark, Style: Newline})
			}
			italic = ev.Italic()
			hasContent = true
		case cea608.MidRow:
			flush()
			italic = ev.Italic()
			hasContent = true
		case cea608.Indent:
			current = append(current, []rune(strings.Repeat(" ", ev.Spaces))...)
			hasContent = true
		case cea608.Control:
			if ev.IsBackspace() && len(current) > 0 {
				current = current[:len(current)-1]
			}
		}
	}
	flush()

	if !hasContent {
		return nil
	}
	return segments
}

func styleFor(italic bool) Style {
	if italic {
		return Italic
	}
	return Normal
}

// PlainText joins segments into one string.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
