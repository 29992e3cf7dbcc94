package desktop

import (
	"log/slog"

	"github.com/1broseidon/deskpager/internal/logging"
	"github.com/BurntSushi/xgb/xproto"
)

// Switcher asks the window manager to activate a desktop.
type Switcher struct {
	src    Source
	atom   xproto.Atom
	logger *slog.Logger
}

// NewSwitcher creates a Switcher that sends _NET_CURRENT_DESKTOP messages
// using the atom resolved by a Reader.
func NewSwitcher(src Source, atoms Atoms, logger *slog.Logger) *Switcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Switcher{src: src, atom: atoms.CurrentDesktop, logger: logger}
}

// RequestSwitch sends a _NET_CURRENT_DESKTOP client message for index.
// Delivery is best effort: the window manager applies or ignores it on its
// own schedule and send failures are only logged.
func (s *Switcher) RequestSwitch(index int) {
	if s.atom == xproto.AtomNone {
		s.logger.Debug("switch request dropped, atom unresolved", "desktop", index)
		return
	}
	if err := s.src.SendRootMessage(s.atom, [5]uint32{uint32(index), 0, 0, 0, 0}); err != nil {
		s.logger.Debug("switch request failed", "desktop", index, "error", err)
		return
	}
	s.logger.Debug("switch requested", "desktop", index)
}
