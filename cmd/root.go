package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/webperf-tools/vitaltop/config"
	"github.com/webperf-tools/vitaltop/engine"
	"github.com/webperf-tools/vitaltop/export"
	"github.com/webperf-tools/vitaltop/hooks"
	"github.com/webperf-tools/vitaltop/observer"
	"github.com/webperf-tools/vitaltop/offload"
	"github.com/webperf-tools/vitaltop/report"
	"github.com/webperf-tools/vitaltop/ui"
	"github.com/webperf-tools/vitaltop/util"
)

// Version is set at build time via ldflags.
var Version = "0.3.0"

// Options holds CLI configuration on top of the config file.
type Options struct {
	ReplayPath  string
	RecordPath  string
	ChartPath   string
	WatchMode   bool
	WatchCount  int
	JSONMode    bool
	ConsoleMode bool
	DemoMode    bool
	StdinFeed   bool
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vitaltop v%s - web-vitals and render-performance console

Usage:
  vitaltop [OPTIONS]

Modes:
  (default)         Interactive overlay TUI fed by -replay, -stdin or -demo
  -watch            Console output mode: prints the full report with auto-refresh
  -json             Single JSON snapshot to stdout, then exit
  -console          Interactive debug console (development mode only)
  -version          Print version and exit

Feeds:
  -replay FILE      Replay a JSONL observation capture with recorded pacing
  -stdin            Read JSONL observation entries from stdin as they arrive
  -demo             Synthesize a plausible observation feed
  -record FILE      Tee every observed entry to FILE for later replay

Options:
  -mode M           development or production (default: from config file)
  -interval N       Refresh interval in seconds (default: 1)
  -history N        Overlay snapshots to keep in the ring buffer (default: 300)
  -count N          Iterations for -watch mode (0 = infinite, default: 0)
  -chart FILE       Write an HTML chart report on exit

Examples:
  vitaltop -replay session.jsonl
  vitaltop -watch -count 5 -replay session.jsonl
  vitaltop -json -replay session.jsonl | jq '.vitals'
  browser-bridge | vitaltop -stdin -record session.jsonl
  vitaltop -demo -chart report.html
`, Version)
}

// Run parses flags and starts the application.
func Run() error {
	cfg := config.Load()

	var opts Options
	var modeFlag string
	var intervalSec int
	var showVersion bool

	flag.StringVar(&opts.ReplayPath, "replay", "", "Replay a JSONL observation capture")
	flag.StringVar(&opts.RecordPath, "record", "", "Record observed entries to file")
	flag.StringVar(&opts.ChartPath, "chart", "", "Write an HTML chart report on exit")
	flag.BoolVar(&opts.WatchMode, "watch", false, "Console output mode (no TUI)")
	flag.IntVar(&opts.WatchCount, "count", 0, "Iterations for -watch (0=infinite)")
	flag.BoolVar(&opts.JSONMode, "json", false, "Output a single JSON snapshot and exit")
	flag.BoolVar(&opts.ConsoleMode, "console", false, "Interactive debug console")
	flag.BoolVar(&opts.DemoMode, "demo", false, "Synthesize an observation feed")
	flag.BoolVar(&opts.StdinFeed, "stdin", false, "Read JSONL entries from stdin")
	flag.StringVar(&modeFlag, "mode", "", "development or production")
	flag.IntVar(&intervalSec, "interval", cfg.IntervalSec, "Refresh interval in seconds")
	flag.IntVar(&cfg.HistorySize, "history", cfg.HistorySize, "Snapshots to keep in history")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		fmt.Printf("vitaltop v%s\n", Version)
		return nil
	}

	if modeFlag != "" {
		switch config.Mode(modeFlag) {
		case config.ModeDevelopment, config.ModeProduction:
			cfg.Mode = config.Mode(modeFlag)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q (use development or production)\n", modeFlag)
			os.Exit(1)
		}
	}
	if intervalSec < 1 {
		intervalSec = 1
	}
	cfg.IntervalSec = intervalSec
	interval := time.Duration(intervalSec) * time.Second

	log := util.NopLogger()
	if cfg.Development() && !opts.JSONMode {
		log = util.NewLogger(cfg.LogLevel)
	}

	eng := engine.New(cfg, log)
	defer eng.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorder *observer.Recorder
	if opts.RecordPath != "" {
		f, err := os.Create(opts.RecordPath)
		if err != nil {
			return fmt.Errorf("cannot create record file: %w", err)
		}
		defer f.Close()
		recorder, err = observer.NewRecorder(eng.Bus, f)
		if err != nil {
			return fmt.Errorf("cannot attach recorder: %w", err)
		}
		defer recorder.Close()
	}

	if opts.ChartPath != "" {
		defer writeChart(eng, opts.ChartPath)
	}

	// -json and -console drain the capture synchronously first.
	if opts.JSONMode || opts.ConsoleMode {
		if opts.ReplayPath != "" {
			capture, err := loadCapture(opts.ReplayPath)
			if err != nil {
				return err
			}
			capture.Replay(eng.Bus)
		}
		if opts.JSONMode {
			return runJSON(eng)
		}
		if !cfg.Development() {
			return fmt.Errorf("the debug console only exists in development mode")
		}
		return report.NewConsole(eng.Reporter).Run(os.Stdin)
	}

	// Start the feed for the live modes.
	if err := startFeed(ctx, eng, opts); err != nil {
		return err
	}

	if opts.WatchMode {
		return runWatch(eng, interval, opts.WatchCount)
	}

	// Overlay TUI, itself measured through the render hooks.
	overlay := ui.NewModel(eng, interval)
	p := tea.NewProgram(hooks.Instrument(overlay, "overlay:render", eng.Tracker), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func loadCapture(path string) (*observer.Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open replay file: %w", err)
	}
	defer f.Close()
	capture, err := observer.NewCapture(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse replay file: %w", err)
	}
	return capture, nil
}

func startFeed(ctx context.Context, eng *engine.Engine, opts Options) error {
	switch {
	case opts.ReplayPath != "":
		capture, err := loadCapture(opts.ReplayPath)
		if err != nil {
			return err
		}
		go func() { _ = capture.ReplayPaced(ctx, eng.Bus) }()
	case opts.StdinFeed:
		go func() { _ = observer.FeedStream(ctx, os.Stdin, eng.Bus) }()
	case opts.DemoMode:
		go runDemoFeed(ctx, eng)
	default:
		return fmt.Errorf("no feed: pass one of -replay, -stdin or -demo")
	}
	return nil
}

// runJSON outputs a single overlay snapshot as JSON and exits.
func runJSON(eng *engine.Engine) error {
	snap := eng.Tick()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// runWatch prints the full report to the terminal with auto-refresh.
func runWatch(eng *engine.Engine, interval time.Duration, count int) error {
	for i := 0; count == 0 || i < count; i++ {
		time.Sleep(interval)
		eng.Tick()
		fmt.Printf("\n%s\n", time.Now().Format("15:04:05"))
		eng.Reporter.PrintFull()
	}
	return nil
}

// writeChart renders the HTML report off the main loop through the
// offload pool, so a slow encode cannot wedge shutdown past its timeout.
func writeChart(eng *engine.Engine, path string) {
	pool := offload.NewPool(1, offload.DefaultTimeout, func(ctx context.Context, payload any) (any, error) {
		p := payload.(string)
		return nil, export.WriteChart(p, eng.Tracker.Report(), eng.Vitals.Metrics())
	})
	defer pool.Close()

	task, err := pool.Submit(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chart export failed: %v\n", err)
		return
	}
	if _, err := task.Wait(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "chart export failed: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "chart report written to %s\n", path)
}
