package cea608

import (
	"testing"
	"unicode/utf8"
)

func TestControlCodesAllChannels(t *testing.T) {
	t.Parallel()
	prefixes := map[string]int{"94": 1, "1c": 2, "15": 3, "9d": 4}
	commands := map[string]byte{
		"20": CmdRCL, "29": 0x29, "25": 0x25, "26": 0x26, "a7": 0x27,
		"2a": 0x2A, "ab": 0x2B, "2c": CmdEDM, "ae": CmdENM, "2f": CmdEOC,
		"a1": CmdBackspace, "a4": 0x24, "ad": CmdCR, "a8": 0x28,
	}
	for prefix, wantCh := range prefixes {
		for lo, wantCmd := range commands {
			word := prefix + lo
			ev := Decode(word)
			c, ok := ev.(Control)
			if !ok {
				t.Errorf("%s: got %T, want Control", word, ev)
				continue
			}
			if c.Command != wantCmd {
				t.Errorf("%s: command got %#x, want %#x", word, c.Command, wantCmd)
			}
			if c.Channel != wantCh {
				t.Errorf("%s: channel got %d, want %d", word, c.Channel, wantCh)
			}
			if c.Name == "" {
				t.Errorf("%s: empty name", word)
			}
		}
	}
}

func TestControlPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word  string
		check func(Control) bool
	}{
		{"9420", Control.IsRCL},
		{"94a1", Control.IsBackspace},
		{"942c", Control.IsEDM},
		{"94ad", Control.IsNewline},
		{"94ae", Control.IsENM},
		{"942f", Control.IsEOC},
	}
	for _, tt := range tests {
		c, ok := Decode(tt.word).(Control)
		if !ok || !tt.check(c) {
			t.Errorf("%s: predicate failed for %#v", tt.word, c)
		}
	}
}

// Channel numbers come straight from the field (0x0100) and channel
// (0x0800) bits of the raw word, so 0x17 tab offsets report CC3/CC4.
func TestTabOffsets(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word    string
		spaces  int
		channel int
	}{
		{"97a1", 1, 3},
		{"1fa1", 1, 4},
		{"97a2", 2, 3},
		{"1fa2", 2, 4},
		{"9723", 3, 3},
		{"1f23", 3, 4},
	}
	for _, tt := range tests {
		ev, ok := Decode(tt.word).(Indent)
		if !ok {
			t.Fatalf("%s: got %T, want Indent", tt.word, Decode(tt.word))
		}
		if ev.Spaces != tt.spaces || ev.Channel != tt.channel {
			t.Errorf("%s: got %+v, want spaces=%d channel=%d", tt.word, ev, tt.spaces, tt.channel)
		}
	}
}

func TestPreamble(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word string
		want PAC
	}{
		{"9470", PAC{Channel: 1, Row: 14, Col: 0, Color: White}},
		{"9440", PAC{Channel: 1, Row: 13, Col: 0, Color: White}},
		{"94d6", PAC{Channel: 1, Row: 13, Col: 12, Color: White}},
		{"91ce", PAC{Channel: 3, Row: 0, Col: 0, Color: Italics}},
		{"9152", PAC{Channel: 3, Row: 0, Col: 4, Color: White}},
		{"9443", PAC{Channel: 1, Row: 13, Col: 0, Color: Green, Underline: true}},
	}
	for _, tt := range tests {
		got, ok := Decode(tt.word).(PAC)
		if !ok {
			t.Fatalf("%s: got %T, want PAC", tt.word, Decode(tt.word))
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.word, got, tt.want)
		}
	}
	if !Decode("91ce").(PAC).Italic() {
		t.Error("91ce: expected italic PAC")
	}
}

func TestMidRow(t *testing.T) {
	t.Parallel()
	got, ok := Decode("91ae").(MidRow)
	if !ok {
		t.Fatalf("91ae: got %T, want MidRow", Decode("91ae"))
	}
	if got.Color != Italics || got.Underline || !got.Italic() {
		t.Errorf("91ae: got %+v", got)
	}
	got = Decode("9120").(MidRow)
	if got.Color != White || got.Underline {
		t.Errorf("9120: got %+v", got)
	}
}

func TestCharacters(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word     string
		chars    string
		extended bool
		channel  int
	}{
		{"c1c2", "AB", false, 3},
		{"c845", "HE", false, 2},
		{"ef80", "o", false, 4},
		{"9137", "♪", false, 3},
		{"92a1", "É", true, 1},
		{"1aa1", "É", true, 2},
		{"1320", "Ã", true, 3},
	}
	for _, tt := range tests {
		got, ok := Decode(tt.word).(Text)
		if !ok {
			t.Fatalf("%s: got %T, want Text", tt.word, Decode(tt.word))
		}
		if got.Chars != tt.chars || got.Extended != tt.extended || got.Channel != tt.channel {
			t.Errorf("%s: got %+v, want chars=%q extended=%v channel=%d", tt.word, got, tt.chars, tt.extended, tt.channel)
		}
	}
}

func TestNullAndErrors(t *testing.T) {
	t.Parallel()
	for _, w := range []string{"8080", "0000"} {
		if _, ok := Decode(w).(Null); !ok {
			t.Errorf("%s: got %T, want Null", w, Decode(w))
		}
	}
	for _, w := range []string{"9520", "9421", "0020", "FF20", "ffff", "6c6c"} {
		e, ok := Decode(w).(Error)
		if !ok || e.Reason != ParityError {
			t.Errorf("%s: got %#v, want parity error", w, Decode(w))
		}
	}
	for _, w := range []string{"zz12", "123", "12345", ""} {
		e, ok := Decode(w).(Error)
		if !ok || e.Reason != InvalidHex {
			t.Errorf("%q: got %#v, want invalid hex", w, Decode(w))
		}
	}
}

func TestUnknown(t *testing.T) {
	t.Parallel()
	// Control-shaped with no named command, and a zero first byte.
	for _, w := range []string{"94a2", "1ca2", "8020"} {
		u, ok := Decode(w).(Unknown)
		if !ok {
			t.Errorf("%s: got %T, want Unknown", w, Decode(w))
			continue
		}
		if u.Raw.String() != w {
			t.Errorf("%s: raw got %s", w, u.Raw)
		}
	}
}

func TestLowFirstByte(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word  string
		chars string
		ch    int
	}{
		{"1020", " ", 1},
		{"1031", "1", 1},
		{"1001", "", 1},
	}
	for _, tt := range tests {
		txt, ok := Decode(tt.word).(Text)
		if !ok {
			t.Errorf("%s: got %T, want Text", tt.word, Decode(tt.word))
			continue
		}
		if txt.Chars != tt.chars || txt.Channel != tt.ch || txt.Extended {
			t.Errorf("%s: got %+v, want %q on CC%d", tt.word, txt, tt.chars, tt.ch)
		}
	}
}

func TestParityAlwaysChecked(t *testing.T) {
	t.Parallel()
	for v := 0; v <= 0xFFFF; v += 7 {
		w := Word(v)
		if w.IsNull() {
			continue
		}
		_, isErr := DecodeWord(w).(Error)
		if isErr == w.ParityOK() {
			t.Fatalf("%s: parity ok=%v but error=%v", w, w.ParityOK(), isErr)
		}
	}
}

func TestCharTableSize(t *testing.T) {
	t.Parallel()
	if len(charTable) != 176 {
		t.Fatalf("char table: got %d glyphs, want 176", len(charTable))
	}
	if r, _ := Glyph(0x21); r != 'A' {
		t.Errorf("glyph 0x21: got %q, want 'A'", r)
	}
	for i, r := range charTable {
		if r == utf8.RuneError {
			t.Errorf("glyph %d is invalid", i)
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word   string
		paired bool
		want   string
	}{
		{"9470", true, "[Pair] Row 14, Col 00, White"},
		{"1c2c", false, "CC2 Clear Screen (EDM)"},
		{"97a1", false, "CC3 Indent 1 space"},
		{"c1c2", false, `CC3 Text: "AB"`},
		{"8080", false, "Null / Padding"},
		{"9520", false, "Error: Parity Error"},
		{"1020", false, `Text: " "`},
		{"94a2", false, "Unknown Code"},
	}
	for _, tt := range tests {
		if got := Describe(Decode(tt.word), tt.paired); got != tt.want {
			t.Errorf("Describe(%s): got %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		word string
		want string
	}{
		{"c1c2", `TEXT: "AB" (c1c2)`},
		{"9470", "PAC : Row 14, Col 00, White (9470)"},
		{"91ae", "CMD : Mid-Row: Ita (CC3)"},
		{"9420", "CMD : Resume Caption Loading (9420)"},
		{"1c2c", "CMD : Clear Screen (1c2c) (CC2)"},
		{"97a2", "CMD : Indent 2 spaces (97a2) (CC3)"},
	}
	for _, tt := range tests {
		if got := Summary(Decode(tt.word), tt.word); got != tt.want {
			t.Errorf("Summary(%s): got %q, want %q", tt.word, got, tt.want)
		}
	}
}
