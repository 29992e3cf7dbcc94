package panel

import (
	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Pointer buttons as reported by the core protocol. 4-7 are wheel steps.
const (
	buttonLeft       xproto.Button = 1
	buttonWheelUp    xproto.Button = 4
	buttonWheelDown  xproto.Button = 5
	buttonWheelLeft  xproto.Button = 6
	buttonWheelRight xproto.Button = 7
)

// InputHandler receives pager input decoded from pointer events.
type InputHandler interface {
	Click(index int)
	Scroll(dir desktop.ScrollDirection)
}

// Bind connects the window's pointer and expose events to h. Callbacks run on
// the xevent main loop.
func (w *Window) Bind(h InputHandler) {
	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		w.handleButton(h, ev.Detail, int(ev.EventX), int(ev.EventY))
	}).Connect(w.xu, w.win.Id)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		// Only the last event of an expose series repaints.
		if ev.Count == 0 {
			w.repaint()
		}
	}).Connect(w.xu, w.win.Id)
}

func (w *Window) handleButton(h InputHandler, button xproto.Button, x, y int) {
	switch button {
	case buttonLeft:
		if i, ok := w.geom.HitTest(x, y, len(w.entries)); ok {
			h.Click(w.entries[i].Index)
		}
	case buttonWheelUp:
		h.Scroll(desktop.ScrollUp)
	case buttonWheelDown:
		h.Scroll(desktop.ScrollDown)
	case buttonWheelLeft:
		h.Scroll(desktop.ScrollLeft)
	case buttonWheelRight:
		h.Scroll(desktop.ScrollRight)
	}
}
