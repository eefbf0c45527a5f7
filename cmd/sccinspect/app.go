package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zsiec/ccx"

	"github.com/zsiec/sccinspect/internal/api"
	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/certs"
	"github.com/zsiec/sccinspect/internal/config"
	"github.com/zsiec/sccinspect/internal/document"
	"github.com/zsiec/sccinspect/internal/pipeline"
	"github.com/zsiec/sccinspect/internal/replay"
	"github.com/zsiec/sccinspect/internal/report"
	"github.com/zsiec/sccinspect/internal/scc"
)

// exitError carries a process exit status without an error message.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// exitFindings is returned by inspect when any file has errors.
const exitFindings exitError = 2

type app struct {
	cfg  config.Config
	opts document.Options
	log  *slog.Logger
	out  io.Writer
}

func newApp(cfg config.Config, log *slog.Logger, out io.Writer) (*app, error) {
	rate, err := cfg.Inspector.Rate()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg: cfg,
		opts: document.Options{
			MaxScanDepth: cfg.Inspector.MaxScanDepth,
			TooltipWidth: cfg.Inspector.TooltipWidth,
			FrameRate:    rate,
		},
		log: log,
		out: out,
	}, nil
}

func (a *app) load(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return document.New(path, string(data), a.opts, a.log), nil
}

func (a *app) inspect(ctx context.Context, cmd *inspectCmd) error {
	workers := cmd.Workers
	if workers <= 0 {
		workers = a.cfg.Inspector.Workers
	}

	var mu sync.Mutex
	var werr error
	enc := json.NewEncoder(a.out)
	sink := pipeline.SinkFunc(func(path string, r report.Report) {
		mu.Lock()
		defer mu.Unlock()
		var err error
		if cmd.JSON {
			err = enc.Encode(r)
		} else {
			err = report.WriteText(a.out, r)
		}
		if err != nil && werr == nil {
			werr = fmt.Errorf("write report for %s: %w", path, err)
		}
	})

	p := pipeline.New(a.opts, workers, sink, a.log)
	if err := p.Run(ctx, cmd.Files); err != nil {
		return err
	}
	if werr != nil {
		return werr
	}

	st := p.Stats()
	a.log.Debug("inspect stats", "files", st.Files, "failed", st.Failed, "parity_errors", st.ParityErrors, "overflows", st.Overflows, "elapsed", st.Elapsed)
	if st.Failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", st.Failed, len(cmd.Files))
	}
	if st.WithErrors > 0 {
		return exitFindings
	}
	return nil
}

func (a *app) decode(cmd *decodeCmd, stdin io.Reader) error {
	if len(cmd.Words) > 0 {
		return a.decodeLine(strings.Join(cmd.Words, " "))
	}
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		if err := a.decodeLine(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (a *app) decodeLine(line string) error {
	for _, c := range scc.DecodeLine(line) {
		if c.Word.IsDuplicate() {
			continue
		}
		if _, err := fmt.Fprintf(a.out, "%s  %s\n", c.Word.Text, cea608.Describe(c.Event, c.Word.Paired)); err != nil {
			return err
		}
	}
	if text := scc.PlainText(scc.Annotate(line)); text != "" {
		if _, err := fmt.Fprintf(a.out, "=> %s\n", text); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) hover(cmd *hoverCmd) error {
	d, err := a.load(cmd.File)
	if err != nil {
		return err
	}
	h, ok := d.Hover(cmd.Line-1, cmd.Col-1)
	if !ok {
		return fmt.Errorf("nothing to describe at %s:%d:%d", cmd.File, cmd.Line, cmd.Col)
	}
	_, err = fmt.Fprintln(a.out, h.Text)
	return err
}

func (a *app) timemap(cmd *timemapCmd) error {
	d, err := a.load(cmd.File)
	if err != nil {
		return err
	}
	tm := d.TimeMap()
	if cmd.JSON {
		type entry struct {
			Line  int    `json:"line"`
			Start string `json:"start,omitempty"`
			End   string `json:"end,omitempty"`
			Text  string `json:"text"`
		}
		entries := make([]entry, 0, len(tm))
		for _, n := range tm.Lines() {
			e := entry{Line: n + 1, Text: scc.PlainText(scc.Annotate(d.Line(n)))}
			if iv := tm[n]; iv.Start != nil {
				e.Start = iv.Start.String()
			}
			if iv := tm[n]; iv.End != nil {
				e.End = iv.End.String()
			}
			entries = append(entries, e)
		}
		return json.NewEncoder(a.out).Encode(entries)
	}
	for _, n := range tm.Lines() {
		text := scc.PlainText(scc.Annotate(d.Line(n)))
		if _, err := fmt.Fprintf(a.out, "%5d%s%s\n", n+1, tm[n].Format(), text); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) replay(ctx context.Context, cmd *replayCmd) error {
	d, err := a.load(cmd.File)
	if err != nil {
		return err
	}
	var werr error
	err = replay.New(a.log).Run(ctx, d, func(f *ccx.CaptionFrame) {
		if werr != nil {
			return
		}
		pts := time.Duration(f.PTS) * time.Microsecond
		_, werr = fmt.Fprintf(a.out, "%12s CC%d %q\n", pts, f.Channel, f.Text)
	})
	if err != nil {
		return err
	}
	return werr
}

func (a *app) serve(ctx context.Context, cmd *serveCmd) error {
	addr, h3Addr := a.cfg.Server.Addr, a.cfg.Server.H3Addr
	if cmd.Addr != "" {
		addr = cmd.Addr
	}
	if cmd.H3Addr != "" {
		h3Addr = cmd.H3Addr
	}

	a.log.Info("generating self-signed certificate")
	cert, err := certs.Generate(a.cfg.Server.CertValidity, cmd.Hosts...)
	if err != nil {
		return fmt.Errorf("generate cert: %w", err)
	}
	a.log.Info("certificate generated",
		"fingerprint", cert.FingerprintBase64(),
		"expires", cert.NotAfter.Format(time.RFC3339),
	)
	if cmd.CertOut != "" {
		if err := writeCertFile(cert, cmd.CertOut); err != nil {
			return err
		}
		a.log.Info("certificate written", "path", cmd.CertOut)
	}

	mgr := document.NewManager(a.opts, a.log)
	for _, path := range cmd.Preload {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		mgr.Activate(path, string(data))
	}

	srv, err := api.NewServer(api.ServerConfig{
		Addr:    addr,
		H3Addr:  h3Addr,
		Cert:    cert,
		Manager: mgr,
		Log:     a.log,
	})
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}

func writeCertFile(cert *certs.CertInfo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cert file: %w", err)
	}
	if err := cert.WriteCertPEM(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
