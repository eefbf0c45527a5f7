// Package document holds the per-document inspection context: the lines of
// an activated SCC document and the frame rate detected when it was
// activated. Every view (findings, timing, buffer snapshots, hovers) is
// derived from that context on demand.
package document

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zsiec/sccinspect/internal/buffer"
	"github.com/zsiec/sccinspect/internal/diag"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
	"github.com/zsiec/sccinspect/internal/timing"
)

// Options tune document inspection.
type Options struct {
	// MaxScanDepth bounds the backward scan of buffer reconstruction.
	MaxScanDepth int
	// TooltipWidth is the hover wrap width in runes.
	TooltipWidth int
	// FrameRate overrides detection when Known.
	FrameRate timecode.FrameRate
}

// Document is an activated SCC document. It is immutable after New.
type Document struct {
	Key         string
	Lines       scc.Lines
	Rate        timecode.FrameRate
	RateSamples int
	ActivatedAt time.Time

	opts Options

	timeMapOnce sync.Once
	timeMap     timing.Map
}

// New activates text as a document, detecting its frame rate. A rate that
// cannot be determined disables all timecode math for the document.
func New(key, text string, opts Options, log *slog.Logger) *Document {
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxScanDepth <= 0 {
		opts.MaxScanDepth = buffer.DefaultMaxDepth
	}

	d := &Document{
		Key:         key,
		Lines:       scc.SplitLines(text),
		ActivatedAt: time.Now(),
		opts:        opts,
	}

	rate, samples := timecode.DetectFrameRate(text)
	d.RateSamples = samples
	switch {
	case opts.FrameRate.Known():
		if rate.Known() && rate != opts.FrameRate {
			log.Info("frame rate override", "key", key, "detected", rate, "using", opts.FrameRate)
		}
		rate = opts.FrameRate
	case rate == timecode.RateInvalid:
		log.Error("invalid frame rate detected, timecode math disabled", "key", key)
		rate = timecode.RateUnknown
	case samples == 0:
		log.Warn("no timestamps found, timecode math disabled", "key", key)
		rate = timecode.RateUnknown
	default:
		log.Debug("detected frame rate", "key", key, "rate", rate, "samples", samples)
	}
	d.Rate = rate
	return d
}

// LineCount implements scc.LineSource.
func (d *Document) LineCount() int { return d.Lines.LineCount() }

// Line implements scc.LineSource.
func (d *Document) Line(i int) string { return d.Lines.Line(i) }

// Findings returns the problems on line n. The following timestamp is
// looked up two lines below, matching the blank-line spacing of SCC files.
func (d *Document) Findings(n int) []diag.Finding {
	return diag.Detector{Rate: d.Rate}.Line(d.Line(n), d.Line(n+2))
}

// TimeMap returns the on-screen interval of every caption line. It is
// computed once per document.
func (d *Document) TimeMap() timing.Map {
	d.timeMapOnce.Do(func() {
		d.timeMap = timing.Build(d, d.Rate)
	})
	return d.timeMap
}

// Snapshot reconstructs the caption buffer at packet index packet of line n.
func (d *Document) Snapshot(n, packet int) buffer.Snapshot {
	r := buffer.Reconstructor{MaxDepth: d.opts.MaxScanDepth}
	return r.Snapshot(d.Line(n), packet, scc.Preceding(d, n, d.opts.MaxScanDepth))
}

// PacketTime returns the time of the packet at index packet of line n, or
// false when the line has no timestamp or the rate is unknown.
func (d *Document) PacketTime(n, packet int) (timecode.Timestamp, bool) {
	m, ok := timecode.Find(d.Line(n))
	if !ok || !d.Rate.Known() {
		return timecode.Timestamp{}, false
	}
	base, err := timecode.Parse(m.Text)
	if err != nil {
		return timecode.Timestamp{}, false
	}
	ts, _ := timecode.AddFrames(base, packet, d.Rate)
	return ts, true
}
