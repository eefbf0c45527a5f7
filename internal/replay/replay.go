// Package replay feeds a document's caption packets through a reference
// CEA-608 decoder and reports the caption text it would display, with
// presentation times derived from the SCC timestamps.
package replay

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zsiec/ccx"

	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/document"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
)

// ErrNoFrameRate is returned when the document's frame rate is unknown, so
// packets cannot be placed in time.
var ErrNoFrameRate = errors.New("replay: document has no usable frame rate")

// Replayer decodes documents through one CEA-608 decoder per data channel.
// SCC carries field 1 only, so channels are CC1 and CC2.
type Replayer struct {
	log  *slog.Logger
	decs map[int]*ccx.CEA608Decoder
}

// New creates a Replayer. If log is nil, slog.Default() is used.
func New(log *slog.Logger) *Replayer {
	if log == nil {
		log = slog.Default()
	}
	return &Replayer{
		log: log.With("component", "replay"),
		decs: map[int]*ccx.CEA608Decoder{
			1: ccx.NewCEA608Decoder(),
			2: ccx.NewCEA608Decoder(),
		},
	}
}

// Run replays d from the start and calls emit for every packet after which
// the decoder reports caption text. PTS values are microseconds from
// 00:00:00:00. Words failing parity and padding are not fed to the decoder.
func (r *Replayer) Run(ctx context.Context, d *document.Document, emit func(*ccx.CaptionFrame)) error {
	if !d.Rate.Known() {
		return ErrNoFrameRate
	}

	channel := 1
	var frames, skipped int
	for n := 0; n < d.LineCount(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := d.Line(n)
		m, ok := timecode.Find(line)
		if !ok {
			continue
		}
		base, err := timecode.Parse(m.Text)
		if err != nil || !base.Valid() {
			r.log.Debug("skipping line with invalid timestamp", "line", n+1, "timestamp", m.Text)
			continue
		}

		for _, p := range scc.Packets(line) {
			w, err := cea608.ParseWord(p.Text)
			if err != nil || w.IsNull() {
				continue
			}
			if !w.ParityOK() {
				skipped++
				continue
			}

			cc1, cc2 := w.Hi()&0x7F, w.Lo()&0x7F
			if cc1 >= 0x10 && cc1 <= 0x1F {
				channel = dataChannel(cc1)
			}

			dec := r.decs[channel]
			text := dec.Decode(cc1, cc2)
			if text == "" {
				continue
			}
			at, _ := timecode.AddFrames(base, p.Index, d.Rate)
			frame := &ccx.CaptionFrame{PTS: at.Duration(d.Rate).Microseconds(), Text: text, Channel: channel}
			frame.Regions = dec.StyledRegions()
			emit(frame)
			frames++
		}
	}

	r.log.Info("replay complete", "key", d.Key, "frames", frames, "skipped", skipped)
	return nil
}

// Collect replays d into a fresh Replayer and returns every frame.
func Collect(ctx context.Context, d *document.Document, log *slog.Logger) ([]*ccx.CaptionFrame, error) {
	var out []*ccx.CaptionFrame
	err := New(log).Run(ctx, d, func(f *ccx.CaptionFrame) {
		out = append(out, f)
	})
	return out, err
}

// dataChannel maps the first byte of a command to CC1 or CC2.
func dataChannel(cc1 byte) int {
	if cc1&0x08 != 0 {
		return 2
	}
	return 1
}
