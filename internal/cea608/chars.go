package cea608

// charTable maps an offset to its glyph. Offsets 0x00-0x5F are the standard
// set (code 0x20 + offset), 0x60-0x6F the special characters, 0x70-0x8F the
// first extended set (Spanish/French) and 0x90-0xAF the second
// (Portuguese/German/Danish).
var charTable = []rune(
	" !\"#$%&'()á+,-./0123456789:;<=>?" +
		"@ABCDEFGHIJKLMNOPQRSTUVWXYZ[é]íó" +
		"úabcdefghijklmnopqrstuvwxyzç÷Ññ█" +
		"®°½¿™¢£♪à èâêîôû" +
		"ÁÉÓÚÜü‘¡*’—©℠•“”ÀÂÇÈÊËëÎÏïÔÙùÛ«»" +
		"ÃãÍÌìÒòÕõ{}\\^_¦~ÄäÖöß¥¤|ÅåØø┌┐└┘",
)

const (
	specialBase   = 0x60
	extendedBase1 = 0x70
	extendedBase2 = 0x90
)

// rowMap converts the 4-bit PAC row index to a zero-based screen row.
// Index 1 is unused by the standard.
var rowMap = [16]int{10, -1, 0, 1, 2, 3, 11, 12, 13, 14, 4, 5, 6, 7, 8, 9}

var controlNames = map[byte]string{
	0x20: "Resume Caption Loading (RCL)",
	0x21: "Backspace",
	0x24: "Delete to End of Row (DER)",
	0x25: "Roll-Up 2 Lines (RU2)",
	0x26: "Roll-Up 3 Lines (RU3)",
	0x27: "Roll-Up 4 Lines (RU4)",
	0x28: "Flash ON (FON)",
	0x29: "Resume Direct Captioning (RDC)",
	0x2A: "Text Restart (TR)",
	0x2B: "Resume Text Display (RTD)",
	0x2C: "Clear Screen (EDM)",
	0x2D: "Carriage Return (CR)",
	0x2E: "Erase Non-Displayed Memory (ENM)",
	0x2F: "Display Caption (EOC)",
}

// Glyph returns the character at table offset i, or false when i is out of
// range.
func Glyph(i int) (rune, bool) {
	if i < 0 || i >= len(charTable) {
		return 0, false
	}
	return charTable[i], true
}
