package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/deskpager/internal/config"
	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/hotkeys"
	"github.com/1broseidon/deskpager/internal/pager"
	"github.com/1broseidon/deskpager/internal/panel"
	"github.com/1broseidon/deskpager/internal/x11"
)

func runPanel(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpager run [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the pager panel until interrupted.")
	}
	path := fs.String("config", "", "Config file path (default: ~/.config/deskpager/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := newLogger(cfg)

	palette, err := paletteFromConfig(cfg.Panel.Colors)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		logger.Error("failed to connect to X server", "error", err)
		return 1
	}
	defer conn.Close()

	win, err := panel.New(conn, panel.Options{
		X:       cfg.Panel.X,
		Y:       cfg.Panel.Y,
		Width:   cfg.Panel.Width,
		Font:    cfg.Panel.Font,
		Sticky:  cfg.Panel.Sticky,
		Palette: palette,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to create panel", "error", err)
		return 1
	}
	defer win.Destroy()

	ctrl := pager.New(conn, win, pager.Options{
		Title:  cfg.Panel.Title,
		Retry:  cfg.RetryPolicy(),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Create(ctx, true); err != nil {
		logger.Error("failed to create pager", "error", err)
		return 1
	}
	win.Bind(ctrl)
	win.Map()

	keys := hotkeys.NewHandler(conn, logger)
	if err := keys.Register(cfg.Hotkeys.Next, func() { ctrl.Scroll(desktop.ScrollDown) }); err != nil {
		logger.Warn("failed to register hotkeys.next", "error", err)
	}
	if err := keys.Register(cfg.Hotkeys.Prev, func() { ctrl.Scroll(desktop.ScrollUp) }); err != nil {
		logger.Warn("failed to register hotkeys.prev", "error", err)
	}

	if err := panel.Run(ctx, conn, ctrl, panel.LoopOptions{
		Interval: cfg.UpdateInterval,
		Logger:   logger,
	}); err != nil {
		logger.Error("pager loop failed", "error", err)
		return 1
	}
	return 0
}

func paletteFromConfig(c config.Colors) (panel.Palette, error) {
	var p panel.Palette
	fields := []struct {
		dst   *uint32
		value string
	}{
		{&p.Background, c.Background},
		{&p.Text, c.Text},
		{&p.LEDOn, c.LEDOn},
		{&p.LEDOff, c.LEDOff},
		{&p.Button, c.Button},
	}
	for _, f := range fields {
		v, err := config.ParseColor(f.value)
		if err != nil {
			return panel.Palette{}, err
		}
		*f.dst = v
	}
	return p, nil
}
