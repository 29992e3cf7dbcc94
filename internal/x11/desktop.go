package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// maxPropertyLength is the long-length argument used for root property reads,
// large enough to fetch any EWMH value in one request.
const maxPropertyLength = 0x7fffffff

// LookupAtom returns the atom for name only if the X server already knows it.
// An unknown name yields xproto.AtomNone with a nil error.
func (c *Connection) LookupAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), true, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("failed to look up %s: %w", name, err)
	}
	return reply.Atom, nil
}

// InternAtom returns the atom for name, creating it if necessary.
func (c *Connection) InternAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// RootProperty reads property prop of type typ from the root window. The
// reply is decoded with the xprop PropVal helpers. A property that is not
// set (format 0, as xprop.GetProperty treats it), or is set with a different
// type, returns a nil reply and a nil error.
func (c *Connection) RootProperty(prop, typ xproto.Atom) (*xproto.GetPropertyReply, error) {
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, c.Root, prop, typ, 0, maxPropertyLength).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get root property %d: %w", prop, err)
	}
	if reply.Format == 0 || reply.Type != typ {
		return nil, nil
	}
	return reply, nil
}

// SendRootMessage sends a 32-bit client message of type typ to the root
// window, addressed the way EWMH pagers talk to the window manager.
func (c *Connection) SendRootMessage(typ xproto.Atom, data [5]uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.Root,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
