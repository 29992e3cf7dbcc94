// Package panel shows the pager as a small dock window on the X display and
// feeds its button presses back to the pager controller.
package panel

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/1broseidon/deskpager/internal/logging"
	"github.com/1broseidon/deskpager/internal/pager"
	"github.com/1broseidon/deskpager/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// allDesktops is the _NET_WM_DESKTOP value for sticky windows.
const allDesktops = 0xFFFFFFFF

// Font metrics used when the server does not answer QueryFont.
const (
	fallbackCharWidth = 6
	fallbackAscent    = 10
)

// Palette holds 0xRRGGBB pixel values.
type Palette struct {
	Background uint32
	Text       uint32
	LEDOn      uint32
	LEDOff     uint32
	Button     uint32
}

// Options configures the dock window.
type Options struct {
	Name    string
	X       int
	Y       int
	Width   int
	Font    string
	Sticky  bool
	Palette Palette
	Logger  *slog.Logger
}

// Window is a pager.Surface backed by an X11 window.
type Window struct {
	xu     *xgbutil.XUtil
	win    *xwindow.Window
	gc     xproto.Gcontext
	font   xproto.Font
	logger *slog.Logger

	geom      Geometry
	palette   Palette
	x, y      int
	charWidth int
	ascent    int

	entries []pager.Entry
	last    pager.Frame
	painted bool
}

var _ pager.Surface = (*Window)(nil)

// New creates the panel window. It is not mapped until Map is called.
func New(conn *x11.Connection, opts Options) (*Window, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Name == "" {
		opts.Name = "deskpager"
	}

	w := &Window{
		xu:        conn.XUtil,
		logger:    logger,
		geom:      DefaultGeometry(opts.Width),
		palette:   opts.Palette,
		x:         opts.X,
		y:         opts.Y,
		charWidth: fallbackCharWidth,
		ascent:    fallbackAscent,
	}

	win, err := xwindow.Generate(w.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate panel window: %w", err)
	}
	// Value list order follows the bit positions of the mask (low → high).
	err = win.CreateChecked(conn.Root, w.x, w.y, w.geom.Width, w.geom.Height(0),
		xproto.CwBackPixel|xproto.CwEventMask,
		w.palette.Background,
		xproto.EventMaskExposure|xproto.EventMaskButtonPress)
	if err != nil {
		return nil, fmt.Errorf("failed to create panel window: %w", err)
	}
	w.win = win

	if err := w.setHints(opts.Name, opts.Sticky, 0); err != nil {
		w.logger.Warn("failed to set panel window hints", "error", err)
	}
	if err := w.openFont(opts.Font); err != nil {
		win.Destroy()
		return nil, err
	}
	return w, nil
}

func (w *Window) setHints(name string, sticky bool, desktops int) error {
	id := w.win.Id
	if err := icccm.WmClassSet(w.xu, id, &icccm.WmClass{Instance: name, Class: "Deskpager"}); err != nil {
		return err
	}
	if err := icccm.WmNameSet(w.xu, id, name); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(w.xu, id, name); err != nil {
		return err
	}
	if err := ewmh.WmWindowTypeSet(w.xu, id, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		return err
	}
	if err := w.setSizeHints(desktops); err != nil {
		return err
	}
	if !sticky {
		return nil
	}
	if err := ewmh.WmDesktopSet(w.xu, id, allDesktops); err != nil {
		return err
	}
	return ewmh.WmStateSet(w.xu, id, []string{
		"_NET_WM_STATE_STICKY",
		"_NET_WM_STATE_SKIP_TASKBAR",
		"_NET_WM_STATE_SKIP_PAGER",
	})
}

// setSizeHints pins the window to its configured position and to the size
// needed for the current number of desktops.
func (w *Window) setSizeHints(desktops int) error {
	width := uint(w.geom.Width)
	height := uint(w.geom.Height(desktops))
	return icccm.WmNormalHintsSet(w.xu, w.win.Id, &icccm.NormalHints{
		Flags:     icccm.SizeHintUSPosition | icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		X:         w.x,
		Y:         w.y,
		MinWidth:  width,
		MinHeight: height,
		MaxWidth:  width,
		MaxHeight: height,
	})
}

func (w *Window) openFont(name string) error {
	conn := w.xu.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate font: %w", err)
	}

	fontNames := []string{name, "fixed", "6x13"}
	opened := false
	for _, fontName := range fontNames {
		if fontName == "" {
			continue
		}
		if err = xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err == nil {
			opened = true
			if fontName != name {
				w.logger.Warn("panel font unavailable, using fallback", "font", name, "fallback", fontName)
			}
			break
		}
	}
	if !opened {
		return fmt.Errorf("failed to open any panel font: %w", err)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("failed to allocate graphics context: %w", err)
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(w.win.Id),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			w.palette.Text,       // foreground
			w.palette.Background, // background
			uint32(font),         // font
			0,                    // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("failed to create graphics context: %w", err)
	}

	if info, err := xproto.QueryFont(conn, xproto.Fontable(font)).Reply(); err == nil {
		if cw := int(info.MaxBounds.CharacterWidth); cw > 0 {
			w.charWidth = cw
		}
		if asc := int(info.FontAscent); asc > 0 {
			w.ascent = asc
		}
	}

	w.font = font
	w.gc = gc
	return nil
}

// Layout resizes the window for one row per desktop.
func (w *Window) Layout(entries []pager.Entry) error {
	w.entries = append(w.entries[:0], entries...)
	w.painted = false
	w.win.Resize(w.geom.Width, w.geom.Height(len(entries)))
	return w.setSizeHints(len(entries))
}

// Paint redraws the whole panel.
func (w *Window) Paint(frame pager.Frame) error {
	w.last = frame
	w.painted = true
	conn := w.xu.Conn()
	d := xproto.Drawable(w.win.Id)

	w.fill(d, Rect{Width: w.geom.Width, Height: w.geom.Height(len(w.entries))}, w.palette.Background)
	w.text(d, w.geom.Title(), frame.Title)

	for _, e := range frame.Entries {
		if e.Index < 0 || e.Index >= len(w.entries) {
			continue
		}
		led := w.palette.LEDOff
		if e.Active {
			led = w.palette.LEDOn
		}
		w.fill(d, w.geom.LED(e.Index), led)

		btn := w.geom.Button(e.Index)
		xproto.ChangeGC(conn, w.gc, xproto.GcForeground, []uint32{w.palette.Button})
		xproto.PolyRectangle(conn, d, w.gc, []xproto.Rectangle{toXRect(Rect{
			X: btn.X, Y: btn.Y, Width: btn.Width - 1, Height: btn.Height - 1,
		})})
		w.text(d, Rect{X: btn.X + 2, Y: btn.Y, Width: btn.Width - 4, Height: btn.Height}, e.Name)
	}
	return nil
}

func (w *Window) fill(d xproto.Drawable, r Rect, color uint32) {
	conn := w.xu.Conn()
	xproto.ChangeGC(conn, w.gc, xproto.GcForeground, []uint32{color})
	xproto.PolyFillRectangle(conn, d, w.gc, []xproto.Rectangle{toXRect(r)})
}

func (w *Window) text(d xproto.Drawable, r Rect, s string) {
	s = fitText(s, r.Width/w.charWidth)
	if s == "" {
		return
	}
	conn := w.xu.Conn()
	xproto.ChangeGC(conn, w.gc, xproto.GcForeground|xproto.GcBackground,
		[]uint32{w.palette.Text, w.palette.Background})
	baseline := r.Y + (r.Height+w.ascent)/2 - 1
	xproto.ImageText8(conn, byte(len(s)), d, w.gc, int16(r.X), int16(baseline), s)
}

// repaint redraws the last frame after an Expose.
func (w *Window) repaint() {
	if !w.painted {
		return
	}
	if err := w.Paint(w.last); err != nil {
		w.logger.Debug("repaint failed", "error", err)
	}
}

// Map shows the window.
func (w *Window) Map() {
	w.win.Map()
}

// Destroy releases the window and its drawing resources.
func (w *Window) Destroy() {
	conn := w.xu.Conn()
	if w.gc != 0 {
		xproto.FreeGC(conn, w.gc)
		w.gc = 0
	}
	if w.font != 0 {
		xproto.CloseFont(conn, w.font)
		w.font = 0
	}
	if w.win != nil {
		w.win.Destroy()
	}
}

// fitText truncates s to at most maxChars bytes, the unit ImageText8 counts,
// without splitting a UTF-8 sequence.
func fitText(s string, maxChars int) string {
	if maxChars > 255 {
		maxChars = 255
	}
	if maxChars <= 0 {
		return ""
	}
	if len(s) <= maxChars {
		return s
	}
	n := maxChars
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func toXRect(r Rect) xproto.Rectangle {
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return xproto.Rectangle{
		X:      int16(r.X),
		Y:      int16(r.Y),
		Width:  uint16(r.Width),
		Height: uint16(r.Height),
	}
}
