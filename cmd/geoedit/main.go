// Package main is the entry point for the geoedit terminal editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/geoedit/internal/clipboard"
	"github.com/dshills/geoedit/internal/config"
	"github.com/dshills/geoedit/internal/engine"
	"github.com/dshills/geoedit/internal/loader"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		watch       bool
		debug       bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&watch, "watch", false, "Reload when the file changes on disk")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "geoedit - structured editor for GeoJSON feature documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage: geoedit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("geoedit %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	level := engine.LogLevelWarn
	if debug {
		level = engine.LogLevelDebug
	}
	log := engine.NewLogger(level, os.Stderr)

	eng := engine.New(
		engine.WithConfig(cfg),
		engine.WithClipboard(clipboard.NewSystem()),
		engine.WithLogger(log),
	)
	defer eng.Close()

	path := flag.Arg(0)
	if path != "" {
		data, err := loader.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		// An invalid document still loads for repair; the UI shows the error.
		if err := eng.SetFeatures(string(data)); err != nil {
			log.Warn("loaded with error: %v", err)
		}
	}

	ui, err := newUI(eng, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	if path != "" && (watch || cfg.WatchFiles) {
		w, err := loader.Watch(path, time.Duration(cfg.DebounceMS)*time.Millisecond)
		if err != nil {
			log.Warn("file watch unavailable: %v", err)
		} else {
			defer w.Close()
			go func() {
				for range w.Reloads() {
					data, err := loader.ReadFile(path)
					if err != nil {
						log.Warn("reload failed: %v", err)
						continue
					}
					if err := eng.SetFeatures(string(data)); err != nil {
						log.Warn("reloaded with error: %v", err)
					}
					ui.Refresh()
				}
			}()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		ui.Stop()
	}()

	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
