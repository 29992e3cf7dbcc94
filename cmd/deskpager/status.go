package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/x11"
)

// snapshot is the desktop state printed by status.
type snapshot struct {
	Count    int      `json:"count"`
	Current  int      `json:"current"`
	Names    []string `json:"names"`
	Degraded bool     `json:"degraded"`
}

func readSnapshot(ctx context.Context, src desktop.Source, retry desktop.RetryPolicy, logger *slog.Logger) (snapshot, desktop.Atoms, error) {
	reader := desktop.NewReader(src, retry, logger)
	atoms, err := reader.Resolve(ctx)
	if err != nil {
		return snapshot{}, atoms, err
	}
	count := reader.DesktopCount()
	return snapshot{
		Count:    count,
		Current:  reader.CurrentDesktop(),
		Names:    desktop.PadNames(reader.DesktopNames(), count),
		Degraded: reader.Degraded(),
	}, atoms, nil
}

func printSnapshot(w io.Writer, s snapshot) {
	fmt.Fprintf(w, "desktops: %d\n", s.Count)
	fmt.Fprintf(w, "current:  %d\n", s.Current)
	if s.Degraded {
		fmt.Fprintln(w, "ewmh:     not announced by the window manager")
	}
	for i, name := range s.Names {
		marker := " "
		if i == s.Current {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %d  %s\n", marker, i, name)
	}
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpager status [--config PATH] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the window manager's desktops.")
	}
	path := fs.String("config", "", "Config file path (default: ~/.config/deskpager/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := newLogger(cfg)

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()

	snap, _, err := readSnapshot(context.Background(), conn, cfg.RetryPolicy(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printSnapshot(os.Stdout, snap)
	return 0
}

// resolveTarget turns a switch argument into a desktop index. next and prev
// wrap the same way the mouse wheel does.
func resolveTarget(arg string, current, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("window manager reports no desktops")
	}
	switch strings.ToLower(arg) {
	case "next":
		next, _ := desktop.Scroll(current, count, desktop.ScrollDown)
		return next, nil
	case "prev", "previous":
		prev, _ := desktop.Scroll(current, count, desktop.ScrollUp)
		return prev, nil
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid desktop %q: want an index, next or prev", arg)
	}
	if index < 0 || index >= count {
		return 0, fmt.Errorf("desktop %d out of range (0-%d)", index, count-1)
	}
	return index, nil
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpager switch [--config PATH] <index|next|prev>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the window manager to change the current desktop.")
	}
	path := fs.String("config", "", "Config file path (default: ~/.config/deskpager/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "switch requires exactly one argument")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := newLogger(cfg)

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()

	snap, atoms, err := readSnapshot(context.Background(), conn, cfg.RetryPolicy(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	target, err := resolveTarget(fs.Arg(0), snap.Current, snap.Count)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	desktop.NewSwitcher(conn, atoms, logger).RequestSwitch(target)
	fmt.Printf("switch requested: %d (%s)\n", target, snap.Names[target])
	return 0
}
