package desktop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/deskpager/internal/logging"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// MaxDesktops caps the desktop count taken from the window manager. The
// panel grows one row per desktop and its height must fit an X dimension.
const MaxDesktops = 1024

// Reader reads desktop count, current desktop and desktop names from the
// root window.
type Reader struct {
	src      Source
	retry    RetryPolicy
	logger   *slog.Logger
	atoms    Atoms
	degraded bool
}

// NewReader creates a Reader. A nil logger discards output.
func NewReader(src Source, retry RetryPolicy, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reader{
		src:    src,
		retry:  retry,
		logger: logger,
	}
}

// Resolve looks up the EWMH atoms. _NET_NUMBER_OF_DESKTOPS is only defined
// once an EWMH window manager is running, so it is polled within the retry
// policy and then interned anyway; the pager then sees zero desktops.
// The only errors returned are connection failures and context cancellation.
func (r *Reader) Resolve(ctx context.Context) (Atoms, error) {
	r.atoms = Atoms{}
	r.degraded = false

	attempts := r.retry.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		atom, err := r.src.LookupAtom(AtomNumberOfDesktops)
		if err != nil {
			return Atoms{}, err
		}
		if atom != xproto.AtomNone {
			r.atoms.NumberOfDesktops = atom
			if attempt > 1 {
				r.logger.Debug("window manager ready", "atom", AtomNumberOfDesktops, "attempt", attempt)
			}
			break
		}
		// The wait follows every miss, the last one included.
		if err := r.retry.wait(ctx); err != nil {
			return Atoms{}, err
		}
	}

	if r.atoms.NumberOfDesktops == xproto.AtomNone {
		r.degraded = true
		r.logger.Warn("perhaps a non EWMH conforming window manager",
			"atom", AtomNumberOfDesktops,
			"attempts", attempts)
		atom, err := r.src.InternAtom(AtomNumberOfDesktops)
		if err != nil {
			return Atoms{}, err
		}
		r.atoms.NumberOfDesktops = atom
	}

	var err error
	if r.atoms.CurrentDesktop, err = r.src.InternAtom(AtomCurrentDesktop); err != nil {
		return Atoms{}, err
	}
	if r.atoms.DesktopNames, err = r.src.InternAtom(AtomDesktopNames); err != nil {
		return Atoms{}, err
	}
	if r.atoms.UTF8String, err = r.src.InternAtom(AtomUTF8String); err != nil {
		return Atoms{}, err
	}
	return r.atoms, nil
}

// Atoms returns the atoms from the last Resolve.
func (r *Reader) Atoms() Atoms {
	return r.atoms
}

// Degraded reports whether the last Resolve gave up waiting for the window manager.
func (r *Reader) Degraded() bool {
	return r.degraded
}

// CurrentDesktop returns _NET_CURRENT_DESKTOP, or 0 when it is unavailable
// or not below MaxDesktops.
func (r *Reader) CurrentDesktop() int {
	n, _ := r.readCardinal(r.atoms.CurrentDesktop)
	if n >= MaxDesktops {
		r.logger.Debug("current desktop out of range", "current", n)
		return 0
	}
	return int(n)
}

// DesktopCount returns _NET_NUMBER_OF_DESKTOPS, or 0 when it is unavailable.
// Larger counts are cut to MaxDesktops.
func (r *Reader) DesktopCount() int {
	n, _ := r.readCardinal(r.atoms.NumberOfDesktops)
	if n > MaxDesktops {
		r.logger.Warn("desktop count capped", "reported", n, "max", MaxDesktops)
		return MaxDesktops
	}
	return int(n)
}

// DesktopNames returns the names from _NET_DESKTOP_NAMES. The list may be
// shorter or longer than the desktop count; see PadNames.
func (r *Reader) DesktopNames() []string {
	if r.atoms.DesktopNames == xproto.AtomNone || r.atoms.UTF8String == xproto.AtomNone {
		return []string{}
	}
	reply, err := r.src.RootProperty(r.atoms.DesktopNames, r.atoms.UTF8String)
	if err != nil {
		r.logger.Debug("desktop names unavailable", "error", err)
		return []string{}
	}
	if reply == nil {
		return []string{}
	}
	names, err := xprop.PropValStrs(reply, nil)
	if err != nil {
		r.logger.Debug("desktop names unreadable", "error", err)
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}

// readCardinal reads the first CARDINAL of a root property. ok is false when
// the atom is undefined or the window manager provides no value.
func (r *Reader) readCardinal(prop xproto.Atom) (value uint, ok bool) {
	if prop == xproto.AtomNone {
		return 0, false
	}
	reply, err := r.src.RootProperty(prop, xproto.AtomCardinal)
	if err != nil {
		r.logger.Debug("cardinal property unavailable", "atom", prop, "error", err)
		return 0, false
	}
	// PropValNum indexes the first word without a length check.
	if reply == nil || len(reply.Value) < 4 {
		return 0, false
	}
	n, err := xprop.PropValNum(reply, nil)
	if err != nil {
		r.logger.Debug("cardinal property unreadable", "atom", prop, "error", err)
		return 0, false
	}
	return n, true
}

// String describes the resolved state for diagnostics.
func (a Atoms) String() string {
	return fmt.Sprintf("number_of_desktops=%d current_desktop=%d desktop_names=%d utf8_string=%d",
		a.NumberOfDesktops, a.CurrentDesktop, a.DesktopNames, a.UTF8String)
}
