package scc

import (
	"regexp"
	"strings"

	"github.com/zsiec/sccinspect/internal/cea608"
)

var hexWordPattern = regexp.MustCompile(`\b[0-9a-fA-F]{4}\b`)

// HexWord is one code word located in a line. Start and End are byte
// offsets. For paired words PairStart and PairEnd span both copies.
type HexWord struct {
	Text      string
	Start     int
	End       int
	Paired    bool
	PairStart int
	PairEnd   int
}

// IsDuplicate reports whether w is the second copy of a pair.
func (w HexWord) IsDuplicate() bool { return w.Paired && w.Start > w.PairStart }

// Contains reports whether byte offset col falls inside the word, or inside
// the pair span for paired words.
func (w HexWord) Contains(col int) bool { return w.PairStart <= col && col < w.PairEnd }

// Tokenizer yields the code words of a single line in order.
type Tokenizer struct {
	line    string
	matches [][]int
	i       int
	pending *HexWord
}

// NewTokenizer prepares a tokenizer over line.
func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{line: line, matches: hexWordPattern.FindAllStringIndex(line, -1)}
}

// Next returns the next word, or false once the line is exhausted.
func (t *Tokenizer) Next() (HexWord, bool) {
	if t.pending != nil {
		w := *t.pending
		t.pending = nil
		return w, true
	}
	if t.i >= len(t.matches) {
		return HexWord{}, false
	}

	cur := t.matches[t.i]
	text := strings.ToLower(t.line[cur[0]:cur[1]])
	t.i++

	w := HexWord{Text: text, Start: cur[0], End: cur[1], PairStart: cur[0], PairEnd: cur[1]}
	if t.i < len(t.matches) && needsPairing(text) {
		nxt := t.matches[t.i]
		if strings.ToLower(t.line[nxt[0]:nxt[1]]) == text {
			t.i++
			w.Paired = true
			w.PairEnd = nxt[1]
			t.pending = &HexWord{
				Text:      text,
				Start:     nxt[0],
				End:       nxt[1],
				Paired:    true,
				PairStart: cur[0],
				PairEnd:   nxt[1],
			}
		}
	}
	return w, true
}

func needsPairing(text string) bool {
	w, err := cea608.ParseWord(text)
	return err == nil && w.NeedsPairing()
}

// Words returns every code word in line, duplicates included.
func Words(line string) []HexWord {
	var out []HexWord
	t := NewTokenizer(line)
	for {
		w, ok := t.Next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}

// Packet is a first-of-pair word together with its position in the
// packet stream of the line.
type Packet struct {
	HexWord
	Index int
}

// Packets returns the words of line that occupy a transmission slot,
// skipping the second copy of every pair.
func Packets(line string) []Packet {
	var out []Packet
	t := NewTokenizer(line)
	for {
		w, ok := t.Next()
		if !ok {
			return out
		}
		if w.IsDuplicate() {
			continue
		}
		out = append(out, Packet{HexWord: w, Index: len(out)})
	}
}

// PacketAt returns the packet whose word (or pair span) covers byte offset
// col.
func PacketAt(line string, col int) (Packet, bool) {
	for _, p := range Packets(line) {
		if p.Contains(col) {
			return p, true
		}
	}
	return Packet{}, false
}
