// Package pager drives the desktop panel: it builds one entry per virtual
// desktop, keeps the active indicator current, and turns clicks and scrolls
// into desktop switch requests.
package pager

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/logging"
)

// DefaultTitle is the panel heading, followed by the current desktop index.
const DefaultTitle = "Pager"

// Options configures a Controller.
type Options struct {
	Title  string
	Retry  desktop.RetryPolicy
	Logger *slog.Logger
}

// Controller owns the per-panel desktop state. It is not safe for concurrent
// use; the caller serializes ticks and input on one goroutine.
type Controller struct {
	src      desktop.Source
	surface  Surface
	reader   *desktop.Reader
	switcher *desktop.Switcher
	title    string
	logger   *slog.Logger

	phase   Phase
	current int
	count   int
	entries []Entry
}

// New creates a controller that reads from src and paints into surface.
func New(src desktop.Source, surface Surface, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	return &Controller{
		src:     src,
		surface: surface,
		reader:  desktop.NewReader(src, opts.Retry, logger),
		title:   title,
		logger:  logger,
	}
}

// Create (re)builds the panel from live window manager state. first reports
// whether this is the initial creation; a later call is a forced rebuild.
func (c *Controller) Create(ctx context.Context, first bool) error {
	if !first && c.phase == PhaseReady {
		c.phase = PhaseRebuilding
		c.logger.Debug("rebuilding panel", "desktops", c.count)
	}
	c.phase = PhaseReading

	atoms, err := c.reader.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve desktop atoms: %w", err)
	}
	c.logger.Debug("desktop atoms resolved", "atoms", atoms.String(), "degraded", c.reader.Degraded())
	c.switcher = desktop.NewSwitcher(c.src, atoms, c.logger)

	c.count = c.reader.DesktopCount()
	c.current = c.reader.CurrentDesktop()
	names := desktop.PadNames(c.reader.DesktopNames(), c.count)

	c.entries = make([]Entry, c.count)
	for i := range c.entries {
		c.entries[i] = Entry{
			Index:  i,
			Name:   names[i],
			Active: i == c.current,
		}
	}

	if err := c.surface.Layout(c.Entries()); err != nil {
		return fmt.Errorf("failed to lay out panel: %w", err)
	}
	c.phase = PhaseReady
	c.logger.Info("panel created", "desktops", c.count, "current", c.current)
	return c.paint()
}

// Rebuild forces a recreation, e.g. after the window manager changed the
// number or names of desktops.
func (c *Controller) Rebuild(ctx context.Context) error {
	return c.Create(ctx, false)
}

// Update re-reads the current desktop and repaints the indicators.
func (c *Controller) Update() error {
	if c.phase != PhaseReady {
		return nil
	}
	c.current = c.reader.CurrentDesktop()
	return c.paint()
}

// Click switches to the desktop of the clicked entry.
func (c *Controller) Click(index int) {
	if c.phase != PhaseReady || index < 0 || index >= c.count {
		c.logger.Debug("click ignored", "index", index, "desktops", c.count)
		return
	}
	c.switchTo(index)
}

// Scroll switches to the previous or next desktop, wrapping at the ends.
func (c *Controller) Scroll(dir desktop.ScrollDirection) {
	if c.phase != PhaseReady {
		return
	}
	next, ok := desktop.Scroll(c.current, c.count, dir)
	if !ok {
		c.logger.Debug("scroll ignored, no desktops", "direction", dir.String())
		return
	}
	c.switchTo(next)
}

// switchTo records index as current before the window manager confirms it,
// then sends the request.
func (c *Controller) switchTo(index int) {
	c.current = index
	c.switcher.RequestSwitch(index)
	if err := c.paint(); err != nil {
		c.logger.Warn("failed to repaint panel", "error", err)
	}
}

func (c *Controller) paint() error {
	return c.surface.Paint(c.Frame())
}

// Frame returns the panel contents for the current state.
func (c *Controller) Frame() Frame {
	entries := c.Entries()
	for i := range entries {
		entries[i].Active = entries[i].Index == c.current
	}
	return Frame{
		Title:   fmt.Sprintf("%s[%d]", c.title, c.current),
		Entries: entries,
	}
}

// Entries returns a copy of the desktop entries.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Current returns the current desktop index as last read or requested.
func (c *Controller) Current() int { return c.current }

// Count returns the number of desktops found at the last creation.
func (c *Controller) Count() int { return c.count }

// Degraded reports whether the window manager never announced EWMH support.
func (c *Controller) Degraded() bool { return c.reader.Degraded() }

// Atoms returns the atoms resolved by the last Create.
func (c *Controller) Atoms() desktop.Atoms { return c.reader.Atoms() }
