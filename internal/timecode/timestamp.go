package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timestampPattern = regexp.MustCompile(`\d\d:\d\d:\d\d[:;]\d\d`)

// Timestamp is hh:mm:ss:ff. DropFrame is carried by the ';' separator.
type Timestamp struct {
	Hours     int
	Minutes   int
	Seconds   int
	Frames    int
	DropFrame bool
}

// Parse splits s on ':' and ';' and reads the first four fields. Ranges are
// not checked; see [Timestamp.Valid].
func Parse(s string) (Timestamp, error) {
	parts := strings.Split(strings.ReplaceAll(s, ";", ":"), ":")
	if len(parts) < 4 {
		return Timestamp{}, &ParseError{Input: s, Err: ErrInvalidFormat}
	}
	var f [4]int
	for i := range f {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Timestamp{}, &ParseError{Input: s, Err: ErrInvalidFormat}
		}
		f[i] = n
	}
	return Timestamp{
		Hours:     f[0],
		Minutes:   f[1],
		Seconds:   f[2],
		Frames:    f[3],
		DropFrame: strings.Contains(s, ";"),
	}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Timestamp {
	ts, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// Valid reports whether every field is in range for a 30-frame timestamp.
func (t Timestamp) Valid() bool {
	return t.Hours >= 0 && t.Hours <= 23 &&
		t.Minutes >= 0 && t.Minutes <= 59 &&
		t.Seconds >= 0 && t.Seconds <= 59 &&
		t.Frames >= 0 && t.Frames <= 29
}

// ValidString parses s and checks its ranges.
func ValidString(s string) bool {
	ts, err := Parse(s)
	return err == nil && ts.Valid()
}

func (t Timestamp) String() string {
	sep := ":"
	if t.DropFrame {
		sep = ";"
	}
	return fmt.Sprintf("%02d:%02d:%02d%s%02d", t.Hours, t.Minutes, t.Seconds, sep, t.Frames)
}

// Compare orders timestamps field by field, ignoring the drop-frame flag.
func Compare(a, b Timestamp) int {
	switch {
	case a.Hours != b.Hours:
		return cmpInt(a.Hours, b.Hours)
	case a.Minutes != b.Minutes:
		return cmpInt(a.Minutes, b.Minutes)
	case a.Seconds != b.Seconds:
		return cmpInt(a.Seconds, b.Seconds)
	default:
		return cmpInt(a.Frames, b.Frames)
	}
}

// CompareStrings parses and compares two timestamps. Malformed input
// compares equal.
func CompareStrings(a, b string) int {
	ta, err := Parse(a)
	if err != nil {
		return 0
	}
	tb, err := Parse(b)
	if err != nil {
		return 0
	}
	return Compare(ta, tb)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Match is a timestamp located in a line, with byte offsets.
type Match struct {
	Text  string
	Start int
	End   int
}

// Find returns the first timestamp-shaped token in line.
func Find(line string) (Match, bool) {
	loc := timestampPattern.FindStringIndex(line)
	if loc == nil {
		return Match{}, false
	}
	return Match{Text: line[loc[0]:loc[1]], Start: loc[0], End: loc[1]}, true
}

// Duration converts t to elapsed time from 00:00:00:00 at the given rate.
// Drop-frame timestamps skip frame numbers 00 and 01 of every minute not
// divisible by ten; 23.98 and 29.97 run 1000/1001 slower than nominal.
func (t Timestamp) Duration(rate FrameRate) time.Duration {
	fps := rate.nominalFPS()
	if fps == 0 {
		return 0
	}
	frames := int64(((t.Hours*60+t.Minutes)*60+t.Seconds)*fps + t.Frames)
	if rate == Rate2997DF {
		totalMinutes := int64(t.Hours*60 + t.Minutes)
		frames -= 2 * (totalMinutes - totalMinutes/10)
	}
	if rate.pulledDown() {
		return time.Duration(frames) * time.Second * 1001 / time.Duration(fps*1000)
	}
	return time.Duration(frames) * time.Second / time.Duration(fps)
}
