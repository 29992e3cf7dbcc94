// Package desktop reads EWMH virtual desktop state from the root window and
// asks the window manager to switch desktops.
package desktop

import "github.com/BurntSushi/xgb/xproto"

// EWMH names used by the pager.
const (
	AtomNumberOfDesktops = "_NET_NUMBER_OF_DESKTOPS"
	AtomCurrentDesktop   = "_NET_CURRENT_DESKTOP"
	AtomDesktopNames     = "_NET_DESKTOP_NAMES"
	AtomUTF8String       = "UTF8_STRING"
)

// Source is the window system surface the Reader and Switcher need.
// *x11.Connection satisfies it.
type Source interface {
	// LookupAtom returns xproto.AtomNone if the atom is not yet defined.
	LookupAtom(name string) (xproto.Atom, error)
	InternAtom(name string) (xproto.Atom, error)
	// RootProperty returns a nil reply when the property is unset or has
	// another type.
	RootProperty(prop, typ xproto.Atom) (*xproto.GetPropertyReply, error)
	SendRootMessage(typ xproto.Atom, data [5]uint32) error
}

// Atoms holds the resolved atoms for one panel (re)creation.
type Atoms struct {
	NumberOfDesktops xproto.Atom
	CurrentDesktop   xproto.Atom
	DesktopNames     xproto.Atom
	UTF8String       xproto.Atom
}
