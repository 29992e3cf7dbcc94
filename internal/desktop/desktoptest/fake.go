// Package desktoptest provides an in-memory root window for tests of code
// built on desktop.Source.
package desktoptest

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
)

// ErrSend is a generic transport error for SendErr.
var ErrSend = errors.New("send failed")

// Property is a root window property value.
type Property struct {
	Type xproto.Atom
	// Format is 8, 16 or 32. Zero means 32 for CARDINAL and 8 otherwise.
	Format byte
	Data   []byte
}

func (p Property) reply() *xproto.GetPropertyReply {
	format := p.Format
	if format == 0 {
		format = 8
		if p.Type == xproto.AtomCardinal {
			format = 32
		}
	}
	return &xproto.GetPropertyReply{
		Format:   format,
		Type:     p.Type,
		ValueLen: uint32(len(p.Data) / int(format/8)),
		Value:    p.Data,
	}
}

// Message is a client message sent to the root window.
type Message struct {
	Type xproto.Atom
	Data [5]uint32
}

// Root is a fake X server root window. The zero value is not usable; call New.
type Root struct {
	atoms   map[string]xproto.Atom
	props   map[xproto.Atom]Property
	pending map[string]int
	next    xproto.Atom

	// Lookups counts LookupAtom calls per name.
	Lookups map[string]int
	// Sent records every SendRootMessage call, including failed ones.
	Sent []Message
	// SendErr is returned by SendRootMessage when set.
	SendErr error
	// LookupErr is returned by LookupAtom when set.
	LookupErr error
	// ApplySwitches makes _NET_CURRENT_DESKTOP messages update the property,
	// the way a window manager would.
	ApplySwitches bool
}

// New returns a root window with no EWMH atoms defined.
func New() *Root {
	return &Root{
		atoms:   make(map[string]xproto.Atom),
		props:   make(map[xproto.Atom]Property),
		pending: make(map[string]int),
		next:    100,
		Lookups: make(map[string]int),
	}
}

// SetDesktops defines the EWMH desktop atoms and properties. Names are stored
// NUL terminated as _NET_DESKTOP_NAMES when at least one is given.
func (r *Root) SetDesktops(count, current int, names ...string) {
	r.SetCardinal("_NET_NUMBER_OF_DESKTOPS", uint32(count))
	r.SetCardinal("_NET_CURRENT_DESKTOP", uint32(current))
	if len(names) > 0 {
		r.SetNames(names...)
	}
}

// SetCardinal stores a CARDINAL root property, defining its atom.
func (r *Root) SetCardinal(name string, value uint32) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, value)
	r.props[r.intern(name)] = Property{Type: xproto.AtomCardinal, Data: data}
}

// SetNames stores _NET_DESKTOP_NAMES as a UTF8_STRING list.
func (r *Root) SetNames(names ...string) {
	data := []byte(strings.Join(names, "\x00") + "\x00")
	r.props[r.intern("_NET_DESKTOP_NAMES")] = Property{Type: r.intern("UTF8_STRING"), Data: data}
}

// SetProperty stores a raw property value.
func (r *Root) SetProperty(name string, p Property) {
	r.props[r.intern(name)] = p
}

// DefineAfter hides name from LookupAtom for the first n lookups, modelling a
// window manager that starts after the client.
func (r *Root) DefineAfter(name string, n int) {
	r.pending[name] = n
}

// Atom returns the atom for name, defining it if needed.
func (r *Root) Atom(name string) xproto.Atom {
	return r.intern(name)
}

// Current returns the stored _NET_CURRENT_DESKTOP value.
func (r *Root) Current() int {
	p, ok := r.props[r.atoms["_NET_CURRENT_DESKTOP"]]
	if !ok || len(p.Data) < 4 {
		return 0
	}
	return int(binary.LittleEndian.Uint32(p.Data))
}

func (r *Root) LookupAtom(name string) (xproto.Atom, error) {
	r.Lookups[name]++
	if r.LookupErr != nil {
		return xproto.AtomNone, r.LookupErr
	}
	if n, ok := r.pending[name]; ok {
		if r.Lookups[name] <= n {
			return xproto.AtomNone, nil
		}
		delete(r.pending, name)
	}
	return r.atoms[name], nil
}

func (r *Root) InternAtom(name string) (xproto.Atom, error) {
	return r.intern(name), nil
}

func (r *Root) RootProperty(prop, typ xproto.Atom) (*xproto.GetPropertyReply, error) {
	p, ok := r.props[prop]
	if !ok || p.Type != typ {
		return nil, nil
	}
	return p.reply(), nil
}

func (r *Root) SendRootMessage(typ xproto.Atom, data [5]uint32) error {
	r.Sent = append(r.Sent, Message{Type: typ, Data: data})
	if r.SendErr != nil {
		return r.SendErr
	}
	if r.ApplySwitches && typ == r.atoms["_NET_CURRENT_DESKTOP"] {
		r.SetCardinal("_NET_CURRENT_DESKTOP", data[0])
	}
	return nil
}

func (r *Root) intern(name string) xproto.Atom {
	if a, ok := r.atoms[name]; ok {
		return a
	}
	r.next++
	r.atoms[name] = r.next
	return r.next
}
