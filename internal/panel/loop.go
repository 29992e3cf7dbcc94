package panel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/logging"
	"github.com/1broseidon/deskpager/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// DefaultInterval is the update tick used when LoopOptions.Interval is unset.
const DefaultInterval = time.Second

// Pager is the part of the pager controller driven by the event loop.
type Pager interface {
	Update() error
	Rebuild(ctx context.Context) error
	Atoms() desktop.Atoms
}

// LoopOptions configures Run.
type LoopOptions struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// loop collects root property changes between event dispatches and applies
// them once the dispatch is over.
type loop struct {
	pager  Pager
	logger *slog.Logger

	update  bool
	rebuild bool
}

func newLoop(p Pager, logger *slog.Logger) *loop {
	if logger == nil {
		logger = logging.Discard()
	}
	return &loop{pager: p, logger: logger}
}

func (l *loop) noteProperty(atom xproto.Atom) {
	if atom == xproto.AtomNone {
		return
	}
	atoms := l.pager.Atoms()
	switch atom {
	case atoms.CurrentDesktop:
		l.update = true
	case atoms.NumberOfDesktops, atoms.DesktopNames:
		l.rebuild = true
	}
}

// flush applies pending changes. A rebuild also refreshes the current desktop.
func (l *loop) flush(ctx context.Context) {
	switch {
	case l.rebuild:
		l.rebuild, l.update = false, false
		l.logger.Info("desktop layout changed, rebuilding panel")
		if err := l.pager.Rebuild(ctx); err != nil {
			l.logger.Warn("failed to rebuild panel", "error", err)
		}
	case l.update:
		l.update = false
		l.tick()
	}
}

func (l *loop) tick() {
	if err := l.pager.Update(); err != nil {
		l.logger.Warn("failed to update panel", "error", err)
	}
}

// Run drives the pager until ctx is cancelled or the X event loop quits.
// X callbacks run while this goroutine waits between the loop's before and
// after pings, so they never overlap the update tick.
func Run(ctx context.Context, conn *x11.Connection, p Pager, opts LoopOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := newLoop(p, opts.Logger)

	root := xwindow.New(conn.XUtil, conn.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to watch root window properties: %w", err)
	}
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		l.noteProperty(ev.Atom)
	}).Connect(conn.XUtil, conn.Root)
	defer xevent.Detach(conn.XUtil, conn.Root)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.logger.Info("pager loop started", "interval", interval)

	before, after, quit := xevent.MainPing(conn.XUtil)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("pager loop stopped")
			conn.Quit()
			return nil
		case <-quit:
			l.logger.Info("X event loop quit")
			return nil
		case <-before:
			<-after
			l.flush(ctx)
		case <-ticker.C:
			l.tick()
		}
	}
}
