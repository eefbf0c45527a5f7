package cea608

import (
	"errors"
	"math/bits"
	"strconv"
)

// ErrInvalidHex is returned by ParseWord for text that is not exactly four
// hex digits.
var ErrInvalidHex = errors.New("cea608: invalid hex word")

// Word is a raw 16-bit code word: first byte in the high half, second byte
// in the low half, both still carrying their parity bits.
type Word uint16

// ParseWord parses four hex digits (either case) into a Word.
func ParseWord(s string) (Word, error) {
	if len(s) != 4 {
		return 0, ErrInvalidHex
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, ErrInvalidHex
	}
	return Word(v), nil
}

// Hi returns the first transmitted byte.
func (w Word) Hi() byte { return byte(w >> 8) }

// Lo returns the second transmitted byte.
func (w Word) Lo() byte { return byte(w) }

// ParityOK reports whether both bytes have odd parity.
func (w Word) ParityOK() bool {
	return bits.OnesCount8(w.Hi())%2 == 1 && bits.OnesCount8(w.Lo())%2 == 1
}

// Data returns the 14-bit command field with both parity bits stripped.
func (w Word) Data() uint16 { return uint16(w) & 0x7F7F }

// Channel returns the caption channel (1-4) derived from the field bit
// (0x0100) and the channel bit (0x0800) of the raw word.
func (w Word) Channel() int {
	ch := 1
	if w&0x0800 != 0 {
		ch++
	}
	if w&0x0100 != 0 {
		ch += 2
	}
	return ch
}

// IsNull reports whether w is one of the padding values.
func (w Word) IsNull() bool { return w == 0x8080 || w == 0x0000 }

// String formats w as four lower-case hex digits.
func (w Word) String() string {
	const digits = "0123456789abcdef"
	return string([]byte{
		digits[w>>12&0xF], digits[w>>8&0xF], digits[w>>4&0xF], digits[w&0xF],
	})
}

// NeedsPairing reports whether the word belongs to one of the command
// classes that SCC conventionally transmits twice: control, preamble
// address, mid-row and tab-offset codes. Parity is ignored.
func (w Word) NeedsPairing() bool {
	cc := w.Data()
	return isControl(cc) || isPreamble(cc) || isMidRowChange(cc) || isTabOffset(cc)
}

// Bit templates over the parity-stripped command field.

func isPreamble(cc uint16) bool { return 0x1040 == (0x7040 & cc) }

func isMidRowChange(cc uint16) bool { return 0x1120 == (0x7770 & cc) }

func isControl(cc uint16) bool {
	if 0x0200&cc != 0 {
		return false
	}
	return 0x1400 == (0x7600&cc) || 0x1700 == (0x7700&cc)
}

func isTabOffset(cc uint16) bool { return 0x1720 == (0x777C & cc) }

func isSpecialChar(cc uint16) bool { return 0x1130 == (0x7770 & cc) }

func isExtendedChar(cc uint16) bool { return 0x1220 == (0x7660 & cc) }

func isBasicChar(cc uint16) bool { return 0x0000 != (0x7F00 & cc) }
