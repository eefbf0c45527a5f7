package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/zsiec/sccinspect/internal/config"
	"github.com/zsiec/sccinspect/internal/logging"
)

var version = "dev"

type inspectCmd struct {
	Files   []string `arg:"positional,required" help:"SCC files to inspect"`
	JSON    bool     `arg:"--json" help:"write reports as JSON lines"`
	Workers int      `arg:"-w,--workers" help:"files inspected concurrently (default from config)"`
}

type decodeCmd struct {
	Words []string `arg:"positional" help:"code words or a line of SCC text; stdin is read when empty"`
}

type hoverCmd struct {
	File string `arg:"positional,required" help:"SCC file"`
	Line int    `arg:"positional,required" help:"1-based line number"`
	Col  int    `arg:"positional,required" help:"1-based byte column"`
}

type timemapCmd struct {
	File string `arg:"positional,required" help:"SCC file"`
	JSON bool   `arg:"--json" help:"write the map as JSON"`
}

type replayCmd struct {
	File string `arg:"positional,required" help:"SCC file"`
}

type serveCmd struct {
	Addr    string   `arg:"--addr" help:"HTTPS listen address"`
	H3Addr  string   `arg:"--h3-addr" help:"HTTP/3 listen address"`
	Hosts   []string `arg:"--host,separate" help:"extra certificate host names"`
	CertOut string   `arg:"--cert-out" help:"write the generated certificate as PEM to this file"`
	Preload []string `arg:"positional" help:"SCC files activated at startup"`
}

type cliArgs struct {
	Config    string `arg:"-c,--config,env:SCCINSPECT_CONFIG" help:"YAML config file"`
	FrameRate string `arg:"-r,--frame-rate" help:"frame rate override: 23.98, 25, 29.97 NDF, 29.97 DF"`
	LogLevel  string `arg:"--log-level" help:"debug, info, warn or error"`

	Inspect *inspectCmd `arg:"subcommand:inspect" help:"report findings and caption text for files"`
	Decode  *decodeCmd  `arg:"subcommand:decode" help:"describe code words"`
	Hover   *hoverCmd   `arg:"subcommand:hover" help:"print the tooltip for a file position"`
	TimeMap *timemapCmd `arg:"subcommand:timemap" help:"print on-screen intervals per line"`
	Replay  *replayCmd  `arg:"subcommand:replay" help:"replay a file through a caption decoder"`
	Serve   *serveCmd   `arg:"subcommand:serve" help:"serve the JSON API over HTTPS and HTTP/3"`
}

func (cliArgs) Version() string { return "sccinspect " + version }

func main() {
	if err := run(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(int(exit))
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var args cliArgs
	p := arg.MustParse(&args)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	cfg, err := config.Load(args.Config)
	if err != nil {
		return err
	}
	if args.FrameRate != "" {
		cfg.Inspector.FrameRate = args.FrameRate
	}
	if args.LogLevel != "" {
		cfg.Logging.Level = args.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer := logging.Setup(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	a, err := newApp(cfg, log, os.Stdout)
	if err != nil {
		return err
	}

	switch {
	case args.Inspect != nil:
		return a.inspect(ctx, args.Inspect)
	case args.Decode != nil:
		return a.decode(args.Decode, os.Stdin)
	case args.Hover != nil:
		return a.hover(args.Hover)
	case args.TimeMap != nil:
		return a.timemap(args.TimeMap)
	case args.Replay != nil:
		return a.replay(ctx, args.Replay)
	case args.Serve != nil:
		slog.Info("sccinspect starting", "version", version)
		return a.serve(ctx, args.Serve)
	}
	return nil
}
