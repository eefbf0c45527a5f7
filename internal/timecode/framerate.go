package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// FrameRate is the video rate a document's timestamps are expressed in.
// The zero value means no rate has been determined.
type FrameRate uint8

const (
	RateUnknown FrameRate = iota
	Rate2398
	Rate25
	Rate2997NDF
	Rate2997DF
	RateInvalid
)

// maxDetectSamples bounds how many timestamps DetectFrameRate inspects.
const maxDetectSamples = 50

func (r FrameRate) String() string {
	switch r {
	case Rate2398:
		return "23.98"
	case Rate25:
		return "25"
	case Rate2997NDF:
		return "29.97 NDF"
	case Rate2997DF:
		return "29.97 DF"
	case RateInvalid:
		return "INVALID"
	default:
		return "unknown"
	}
}

// Known reports whether r is one of the four supported rates.
func (r FrameRate) Known() bool { return r >= Rate2398 && r <= Rate2997DF }

// DropFrame reports whether timestamps at r use drop-frame numbering.
func (r FrameRate) DropFrame() bool { return r == Rate2997DF }

func (r FrameRate) nominalFPS() int {
	switch r {
	case Rate2398:
		return 24
	case Rate25:
		return 25
	case Rate2997NDF, Rate2997DF:
		return 30
	}
	return 0
}

func (r FrameRate) pulledDown() bool { return r != Rate25 }

// MarshalText implements encoding.TextMarshaler.
func (r FrameRate) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// ParseFrameRate accepts the rate names produced by String, in any case,
// with "ndf"/"df" optionally joined to the number or separated by '_' or
// '-'.
func ParseFrameRate(s string) (FrameRate, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	norm = strings.Join(strings.Fields(norm), " ")
	norm = strings.Replace(norm, "97ndf", "97 ndf", 1)
	norm = strings.Replace(norm, "97df", "97 df", 1)
	switch norm {
	case "23.98", "23.976":
		return Rate2398, nil
	case "25":
		return Rate25, nil
	case "29.97 ndf", "29.97":
		return Rate2997NDF, nil
	case "29.97 df":
		return Rate2997DF, nil
	}
	return RateUnknown, fmt.Errorf("%w: %q", ErrUnknownFrameRate, s)
}

// DetectFrameRate guesses the rate of an SCC document from its first 50
// timestamps and returns the number of timestamps inspected. Any ';'
// separator selects 29.97 DF. Otherwise the largest frame field decides: at
// most 23 is 23.98, exactly 24 is 25 and anything else is 29.97 NDF. A
// frame field above 29 makes the document Invalid. A document with no
// timestamps yields 23.98 with a count of zero.
func DetectFrameRate(text string) (FrameRate, int) {
	maxFrame := 0
	dropFrame := false
	count := 0

	for _, ts := range timestampPattern.FindAllString(text, maxDetectSamples) {
		count++
		if strings.Contains(ts, ";") {
			dropFrame = true
		}
		frame, _ := strconv.Atoi(ts[len(ts)-2:])
		if frame > 29 {
			return RateInvalid, count
		}
		maxFrame = max(maxFrame, frame)
	}

	switch {
	case dropFrame:
		return Rate2997DF, count
	case maxFrame <= 23:
		return Rate2398, count
	case maxFrame == 24:
		return Rate25, count
	default:
		return Rate2997NDF, count
	}
}

// AddFrames returns the timestamp of the packet at packetOffset within a
// line starting at base, together with the frame offset the cadence maps
// it to. At 23.98 every fifth packet shares a frame with the one before
// it; at 25 every sixth does. Crossing a minute boundary in drop-frame
// advances a frame field below 2 to 2, except on every tenth minute.
//
// AddFrames panics if rate is not Known.
func AddFrames(base Timestamp, packetOffset int, rate FrameRate) (Timestamp, int) {
	if !rate.Known() {
		panic(fmt.Sprintf("timecode: AddFrames with frame rate %s", rate))
	}
	fps := rate.nominalFPS()

	var frameOffset int
	switch rate {
	case Rate2398:
		frameOffset = (packetOffset/5)*4 + min(packetOffset%5, 3)
	case Rate25:
		frameOffset = (packetOffset/6)*5 + min(packetOffset%6, 4)
	default:
		frameOffset = packetOffset
	}

	hh, mm, ss, ff := base.Hours, base.Minutes, base.Seconds, base.Frames+frameOffset
	ss += ff / fps
	ff %= fps

	for ss >= 60 {
		ss -= 60
		mm++
		if rate.DropFrame() && mm%10 != 0 && ff < 2 {
			ff = 2
		}
	}
	hh += mm / 60
	mm %= 60

	return Timestamp{Hours: hh, Minutes: mm, Seconds: ss, Frames: ff, DropFrame: rate.DropFrame()}, frameOffset
}
