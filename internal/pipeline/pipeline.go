// Package pipeline inspects many SCC files concurrently, handing each
// finished report to a Sink while collecting run counters.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/sccinspect/internal/document"
	"github.com/zsiec/sccinspect/internal/report"
)

// Sink receives finished reports. Deliver may be called from several
// goroutines at once.
type Sink interface {
	Deliver(path string, r report.Report)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(path string, r report.Report)

func (f SinkFunc) Deliver(path string, r report.Report) { f(path, r) }

// Stats are the counters of a run.
type Stats struct {
	Files        int64
	Failed       int64
	WithErrors   int64
	ParityErrors int64
	Overflows    int64
	Elapsed      time.Duration
}

// Pipeline reads and inspects files with bounded concurrency.
type Pipeline struct {
	log     *slog.Logger
	opts    document.Options
	workers int
	sink    Sink

	files      atomic.Int64
	failed     atomic.Int64
	withErrors atomic.Int64
	parity     atomic.Int64
	overflows  atomic.Int64
	startTime  time.Time
	elapsed    atomic.Int64
}

// New creates a Pipeline. workers <= 0 uses GOMAXPROCS.
func New(opts document.Options, workers int, sink Sink, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{
		log:     log.With("component", "pipeline"),
		opts:    opts,
		workers: workers,
		sink:    sink,
	}
}

// Run inspects every path. Unreadable files are logged and counted but do
// not stop the run; the returned error is non-nil only when ctx ends first.
func (p *Pipeline) Run(ctx context.Context, paths []string) error {
	p.startTime = time.Now()
	defer func() { p.elapsed.Store(int64(time.Since(p.startTime))) }()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := p.inspect(path)
			if err != nil {
				p.failed.Add(1)
				p.log.Warn("inspect failed", "path", path, "error", err)
				return nil
			}
			p.record(r)
			if p.sink != nil {
				p.sink.Deliver(path, r)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.log.Info("batch complete", "files", p.files.Load(), "failed", p.failed.Load(), "with_errors", p.withErrors.Load())
	return nil
}

func (p *Pipeline) inspect(path string) (report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report.Report{}, fmt.Errorf("read %s: %w", path, err)
	}
	d := document.New(path, string(data), p.opts, p.log)
	return report.Build(d), nil
}

func (p *Pipeline) record(r report.Report) {
	p.files.Add(1)
	p.parity.Add(int64(r.Summary.ParityErrors))
	p.overflows.Add(int64(r.Summary.Overflows))
	if r.Summary.HasErrors() {
		p.withErrors.Add(1)
	}
}

// Stats returns the counters of the most recent run.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Files:        p.files.Load(),
		Failed:       p.failed.Load(),
		WithErrors:   p.withErrors.Load(),
		ParityErrors: p.parity.Load(),
		Overflows:    p.overflows.Load(),
		Elapsed:      time.Duration(p.elapsed.Load()),
	}
}
