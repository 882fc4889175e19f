// insight collects facts about the host (identity, OS, CPU, memory, power,
// display, network, sensors, cameras and runtime) and shows them as
// collapsible sections in a terminal UI.
//
// With --once it prints a single report instead and exits, which is the
// form meant for sharing or piping into other tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/tw93/insight/internal/config"
	"github.com/tw93/insight/internal/facts"
	"github.com/tw93/insight/internal/present"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	once       bool
	format     string
	logLevel   string
	logFile    string
}

func run(args []string) error {
	var opts options

	flagSet := pflag.NewFlagSet("insight", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the TOML config file")
	flagSet.BoolVar(&opts.once, "once", false, "print a single report and exit")
	flagSet.StringVar(&opts.format, "format", formatText, "report format for --once: text, json or yaml")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	flagSet.StringVar(&opts.logFile, "log-file", "", "append log records to this file (overrides config)")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so without a log file records are dropped.
	fallback := io.Discard
	if opts.once {
		fallback = os.Stderr
	}
	logger, closeLog, err := newLogger(cfg.Log, fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := facts.NewCollector(
		facts.NewHostSources(cfg.HostOptions(), logger),
		facts.WithLogger(logger),
		facts.WithProbeTimeout(cfg.ProbeTimeout()),
	)

	if opts.once {
		snap := collector.Collect(ctx)
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("collection cancelled: %w", err)
		}
		return writeSnapshot(os.Stdout, snap, format)
	}

	controller := present.NewController(collector, logger)
	program := tea.NewProgram(newModel(ctx, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel == "" && opts.logFile == "" {
		return cfg, nil
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		abs, err := filepath.Abs(opts.logFile)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		cfg.Log.File = abs
	}
	return config.NormalizeAndValidate(cfg)
}

func newLogger(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	w, closeFn := fallback, func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	}
	if w == io.Discard {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `insight shows what the system knows about this machine.

Without flags it opens an interactive view. Use the arrow keys to pick a
section, enter or space to expand it, r to refresh and q to quit.

Usage:
  insight [flags]

Examples:
  # Browse the device facts
  insight

  # Print a shareable text report
  insight --once

  # Dump the raw snapshot as JSON
  insight --once --format json

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
