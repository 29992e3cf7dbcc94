// Package hotkeys binds global key sequences on the root window.
package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/deskpager/internal/logging"
	"github.com/1broseidon/deskpager/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler registers key sequences such as "Mod4-Right".
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler for the connection's root window. The
// connection must have keybind initialized.
func NewHandler(conn *x11.Connection, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	ignoreModsOnce.Do(func() {
		xevent.IgnoreMods = ignoreMods(
			modMaskForKeysym(conn.XUtil, "Num_Lock"),
			modMaskForKeysym(conn.XUtil, "Scroll_Lock"),
		)
	})
	return &Handler{xu: conn.XUtil, root: conn.Root, logger: logger}
}

// Register calls fn whenever seq is pressed. An empty seq is skipped.
func (h *Handler) Register(seq string, fn func()) error {
	if seq == "" {
		return nil
	}
	err := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
		h.logger.Debug("hotkey pressed", "keys", seq)
		fn()
	}).Connect(h.xu, h.root, seq, true)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", seq, err)
	}
	return nil
}

// ignoreMods lists every combination of CapsLock and the given lock masks,
// including none, so a binding fires regardless of lock state.
func ignoreMods(numLock, scrollLock uint16) []uint16 {
	caps := uint16(xproto.ModMaskLock)
	locks := []uint16{caps}
	for _, m := range []uint16{numLock, scrollLock} {
		if m == 0 {
			continue
		}
		dup := false
		for _, seen := range locks {
			if seen == m {
				dup = true
				break
			}
		}
		if !dup {
			locks = append(locks, m)
		}
	}

	out := make([]uint16, 0, 1<<len(locks))
	for subset := 0; subset < 1<<len(locks); subset++ {
		var mask uint16
		for bit, m := range locks {
			if subset&(1<<bit) != 0 {
				mask |= m
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
