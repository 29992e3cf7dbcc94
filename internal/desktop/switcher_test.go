package desktop_test

import (
	"context"
	"testing"

	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/desktop/desktoptest"
	"github.com/BurntSushi/xgb/xproto"
)

func TestSwitcher_SendsCurrentDesktopMessage(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(4, 0)

	r := desktop.NewReader(root, instantRetry(1, nil), nil)
	atoms, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	s := desktop.NewSwitcher(root, atoms, nil)
	s.RequestSwitch(3)

	if len(root.Sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(root.Sent))
	}
	msg := root.Sent[0]
	if msg.Type != root.Atom(desktop.AtomCurrentDesktop) {
		t.Fatalf("message type = %d, want _NET_CURRENT_DESKTOP (%d)", msg.Type, root.Atom(desktop.AtomCurrentDesktop))
	}
	if msg.Data != [5]uint32{3, 0, 0, 0, 0} {
		t.Fatalf("message data = %v, want [3 0 0 0 0]", msg.Data)
	}
}

func TestSwitcher_SendFailureIsNotSurfaced(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 0)
	root.SendErr = desktoptest.ErrSend

	s := desktop.NewSwitcher(root, desktop.Atoms{CurrentDesktop: root.Atom(desktop.AtomCurrentDesktop)}, nil)
	s.RequestSwitch(1)

	if len(root.Sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(root.Sent))
	}
}

func TestSwitcher_UnresolvedAtomSendsNothing(t *testing.T) {
	root := desktoptest.New()
	s := desktop.NewSwitcher(root, desktop.Atoms{CurrentDesktop: xproto.AtomNone}, nil)
	s.RequestSwitch(1)

	if len(root.Sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(root.Sent))
	}
}
