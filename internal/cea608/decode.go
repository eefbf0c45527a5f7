package cea608

// Decode classifies one SCC code word given as hex text. It never fails:
// malformed input yields an Error event and unrecognized words yield
// Unknown.
func Decode(word string) Event {
	if word == "8080" || word == "0000" {
		return Null{}
	}
	w, err := ParseWord(word)
	if err != nil {
		return Error{Reason: InvalidHex}
	}
	return DecodeWord(w)
}

// DecodeWord classifies an already parsed code word.
func DecodeWord(w Word) Event {
	if w.IsNull() {
		return Null{}
	}
	if !w.ParityOK() {
		return Error{Reason: ParityError}
	}

	cc := w.Data()
	ch := w.Channel()

	if isTabOffset(cc) {
		return Indent{Channel: ch, Spaces: int(cc&0xFF) - 0x20}
	}

	if isControl(cc) {
		cmd := byte(cc & 0xFF)
		if name, ok := controlNames[cmd]; ok {
			return Control{Channel: ch, Command: cmd, Name: name}
		}
	}

	if isPreamble(cc) {
		return decodePreamble(cc, ch)
	}

	if isMidRowChange(cc) {
		return MidRow{
			Channel:   ch,
			Color:     Color((cc & 0x000E) >> 1),
			Underline: cc&1 != 0,
		}
	}

	// Special and extended offsets ignore the second-channel bit.
	base := cc &^ 0x0800

	if isSpecialChar(cc) {
		if r, ok := Glyph(specialBase + int(base&0x0F)); ok {
			return Text{Channel: ch, Chars: string(r)}
		}
	}

	if isExtendedChar(cc) {
		idx := -1
		switch {
		case base >= 0x1220 && base < 0x1240:
			idx = extendedBase1 + int(base-0x1220)
		case base >= 0x1320 && base < 0x1340:
			idx = extendedBase2 + int(base-0x1320)
		}
		if r, ok := Glyph(idx); ok {
			return Text{Channel: ch, Chars: string(r), Extended: true}
		}
	}

	// Control-shaped words outside the name table never print.
	if isBasicChar(cc) && !isControl(cc) {
		return decodePair(cc, ch)
	}

	return Unknown{Channel: ch, Raw: w}
}

func decodePreamble(cc uint16, ch int) PAC {
	rowIdx := ((0x0700 & cc) >> 7) | ((0x0020 & cc) >> 5)
	p := PAC{
		Channel:   ch,
		Row:       rowMap[rowIdx],
		Underline: cc&1 != 0,
	}
	nibble := int((0x000E & cc) >> 1)
	if cc&0x10 != 0 {
		p.Col = 4 * nibble
		p.Color = White
	} else {
		p.Color = Color(nibble)
	}
	return p
}

func decodePair(cc uint16, ch int) Event {
	var chars []rune
	if r, ok := Glyph(int(cc>>8) - 0x20); ok {
		chars = append(chars, r)
	}
	if lo := cc & 0xFF; lo >= 0x20 && lo < 0x80 {
		if r, ok := Glyph(int(lo) - 0x20); ok {
			chars = append(chars, r)
		}
	}
	return Text{Channel: ch, Chars: string(chars)}
}
