package cea608

import (
	"fmt"
	"strings"
)

// Event is the semantic result of decoding one code word. The concrete type
// is exactly one of Text, PAC, MidRow, Indent, Control, Null, Error or
// Unknown.
type Event interface {
	// Kind returns the short upper-case tag of the event type.
	Kind() string
	sealed()
}

// Color is a caption foreground style from the PAC/mid-row palette.
type Color uint8

// Palette entries in code order.
const (
	White Color = iota
	Green
	Blue
	Cyan
	Red
	Yellow
	Magenta
	Italics
)

var colorNames = [...]string{"White", "Green", "Blue", "Cyan", "Red", "Yellow", "Magenta", "Italics"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Short returns the three-letter abbreviation used in buffer markers.
func (c Color) Short() string { return c.String()[:3] }

// ErrorReason identifies why a word could not be decoded.
type ErrorReason uint8

const (
	ParityError ErrorReason = iota + 1
	InvalidHex
)

func (r ErrorReason) String() string {
	switch r {
	case ParityError:
		return "Parity Error"
	case InvalidHex:
		return "Invalid Hex"
	default:
		return "Unknown Error"
	}
}

// Text carries one or two printable characters. Extended characters
// replace the standard character transmitted before them.
type Text struct {
	Channel  int
	Chars    string
	Extended bool
}

// PAC is a preamble address code positioning the caption cursor.
type PAC struct {
	Channel   int
	Row       int
	Col       int
	Color     Color
	Underline bool
}

// Italic reports whether the PAC selects italics.
func (p PAC) Italic() bool { return p.Color == Italics }

// Marker renders the PAC as the inline position tag used in buffer text,
// for example "{R14 C04 Whi}".
func (p PAC) Marker() string {
	return fmt.Sprintf("{R%02d C%02d %s}", p.Row, p.Col, p.Color.Short())
}

// MidRow changes style in the middle of a row.
type MidRow struct {
	Channel   int
	Color     Color
	Underline bool
}

// Italic reports whether the change selects italics.
func (m MidRow) Italic() bool { return m.Color == Italics }

// Indent is a tab offset of one to three columns.
type Indent struct {
	Channel int
	Spaces  int
}

// Control is a miscellaneous control command found in the name table.
type Control struct {
	Channel int
	Command byte
	Name    string
}

// Control command bytes that drive the caption lifecycle.
const (
	CmdRCL       byte = 0x20
	CmdBackspace byte = 0x21
	CmdEDM       byte = 0x2C
	CmdCR        byte = 0x2D
	CmdENM       byte = 0x2E
	CmdEOC       byte = 0x2F
)

func (c Control) IsBackspace() bool { return c.Command == CmdBackspace }
func (c Control) IsNewline() bool   { return c.Command == CmdCR }
func (c Control) IsEOC() bool       { return c.Command == CmdEOC }
func (c Control) IsEDM() bool       { return c.Command == CmdEDM }
func (c Control) IsENM() bool       { return c.Command == CmdENM }
func (c Control) IsRCL() bool       { return c.Command == CmdRCL }

// ShortName is the command name without its parenthesized mnemonic.
func (c Control) ShortName() string {
	if i := strings.IndexByte(c.Name, '('); i >= 0 {
		return strings.TrimSpace(c.Name[:i])
	}
	return c.Name
}

// Null is a padding word (8080 or 0000).
type Null struct{}

// Error is a word that failed parity or hex validation.
type Error struct {
	Reason ErrorReason
}

// Unknown is a well-formed word that matches no known pattern.
type Unknown struct {
	Channel int
	Raw     Word
}

func (Text) Kind() string    { return "TEXT" }
func (PAC) Kind() string     { return "PAC" }
func (MidRow) Kind() string  { return "MIDROW" }
func (Indent) Kind() string  { return "INDENT" }
func (Control) Kind() string { return "CONTROL" }
func (Null) Kind() string    { return "NULL" }
func (Error) Kind() string   { return "ERROR" }
func (Unknown) Kind() string { return "UNKNOWN" }

func (Text) sealed()    {}
func (PAC) sealed()     {}
func (MidRow) sealed()  {}
func (Indent) sealed()  {}
func (Control) sealed() {}
func (Null) sealed()    {}
func (Error) sealed()   {}
func (Unknown) sealed() {}

// Label returns "" for the primary channel and "CCn" otherwise.
func Label(channel int) string {
	if channel <= 1 {
		return ""
	}
	return fmt.Sprintf("CC%d", channel)
}

// ChannelOf returns the channel an event was decoded on, or 0 for Null and
// Error events.
func ChannelOf(ev Event) int {
	switch e := ev.(type) {
	case Text:
		return e.Channel
	case PAC:
		return e.Channel
	case MidRow:
		return e.Channel
	case Indent:
		return e.Channel
	case Control:
		return e.Channel
	case Unknown:
		return e.Channel
	}
	return 0
}
