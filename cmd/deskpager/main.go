package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/deskpager/internal/config"
	"github.com/1broseidon/deskpager/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runPanel(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskpager <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Show the pager panel (foreground)")
	fmt.Fprintln(w, "  status              Print desktops and the current desktop")
	fmt.Fprintln(w, "  switch              Ask the window manager to change desktop")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskpager <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	var (
		res *config.LoadResult
		err error
	)
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	// log_level was checked with the same parser when the config loaded.
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return logging.New(os.Stderr, level)
}
