package cea608

import "fmt"

// Describe renders a one-line human description of ev. Paired words are
// prefixed with "[Pair] " and non-primary channels with their label.
func Describe(ev Event, paired bool) string {
	var prefix string
	if paired {
		prefix = "[Pair] "
	}
	if lbl := Label(ChannelOf(ev)); lbl != "" {
		prefix += lbl + " "
	}

	switch e := ev.(type) {
	case PAC:
		return fmt.Sprintf("%sRow %02d, Col %02d, %s%s", prefix, e.Row, e.Col, e.Color, underlined(e.Underline, " Underlined"))
	case MidRow:
		return fmt.Sprintf("%sMid-row: %s%s", prefix, e.Color, underlined(e.Underline, " Underlined"))
	case Control:
		return prefix + e.Name
	case Indent:
		return fmt.Sprintf("%sIndent %d %s", prefix, e.Spaces, plural(e.Spaces, "space", "spaces"))
	case Text:
		return fmt.Sprintf("%sText: %q", prefix, e.Chars)
	case Null:
		return "Null / Padding"
	case Error:
		return "Error: " + e.Reason.String()
	}
	return "Unknown Code"
}

// Summary renders the headline shown above the buffer in a hover tooltip,
// for example `PAC : Row 14, Col 00, White (9470)`.
func Summary(ev Event, word string) string {
	var suffix string
	if lbl := Label(ChannelOf(ev)); lbl != "" {
		suffix = " (" + lbl + ")"
	}

	switch e := ev.(type) {
	case Text:
		return fmt.Sprintf("TEXT: %q (%s)", e.Chars, word)
	case PAC:
		return fmt.Sprintf("PAC : Row %02d, Col %02d, %s%s (%s)%s", e.Row, e.Col, e.Color, underlined(e.Underline, " Und"), word, suffix)
	case MidRow:
		return fmt.Sprintf("CMD : Mid-Row: %s%s%s", e.Color.Short(), underlined(e.Underline, " Und"), suffix)
	case Control:
		return fmt.Sprintf("CMD : %s (%s)%s", e.ShortName(), word, suffix)
	case Indent:
		return fmt.Sprintf("CMD : Indent %d %s (%s)%s", e.Spaces, plural(e.Spaces, "space", "spaces"), word, suffix)
	}
	return Describe(ev, false)
}

func underlined(on bool, s string) string {
	if on {
		return s
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// IsControlLike reports whether ev carries no printable content of its own,
// which is how tooltips decide where to draw the cursor marker.
func IsControlLike(ev Event) bool {
	switch ev.(type) {
	case Control, Null:
		return true
	}
	return false
}
