package pager

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/desktop/desktoptest"
)

type fakeSurface struct {
	layouts   [][]Entry
	frames    []Frame
	layoutErr error
}

func (s *fakeSurface) Layout(entries []Entry) error {
	s.layouts = append(s.layouts, entries)
	return s.layoutErr
}

func (s *fakeSurface) Paint(frame Frame) error {
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeSurface) last() Frame {
	if len(s.frames) == 0 {
		return Frame{}
	}
	return s.frames[len(s.frames)-1]
}

func activeIndex(f Frame) int {
	active := -1
	for _, e := range f.Entries {
		if e.Active {
			if active != -1 {
				return -2
			}
			active = e.Index
		}
	}
	return active
}

func noWait() desktop.RetryPolicy {
	return desktop.RetryPolicy{
		Attempts: 10,
		Delay:    time.Second / 3,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
}

func newTestController(t *testing.T, root *desktoptest.Root) (*Controller, *fakeSurface) {
	t.Helper()
	surface := &fakeSurface{}
	c := New(root, surface, Options{Retry: noWait()})
	if c.Phase() != PhaseUninitialized {
		t.Fatalf("new controller phase = %v, want uninitialized", c.Phase())
	}
	if err := c.Create(context.Background(), true); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return c, surface
}

func TestCreate_BuildsOneEntryPerDesktop(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(4, 1, "web", "code")

	c, surface := newTestController(t, root)

	if c.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", c.Phase())
	}
	want := []Entry{
		{Index: 0, Name: "web"},
		{Index: 1, Name: "code", Active: true},
		{Index: 2, Name: "vdesk02"},
		{Index: 3, Name: "vdesk03"},
	}
	if len(surface.layouts) != 1 || !reflect.DeepEqual(surface.layouts[0], want) {
		t.Fatalf("layout = %+v, want %+v", surface.layouts, want)
	}
	if got := surface.last().Title; got != "Pager[1]" {
		t.Fatalf("title = %q, want Pager[1]", got)
	}
}

func TestCreate_ExtraNamesIgnored(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 0, "a", "b", "c")

	c, _ := newTestController(t, root)
	if got := len(c.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
}

func TestCreate_GarbageDesktopCountIsCapped(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 1)
	root.SetCardinal(desktop.AtomNumberOfDesktops, 0xFFFFFFFF)

	c, surface := newTestController(t, root)
	if got := c.Count(); got != desktop.MaxDesktops {
		t.Fatalf("Count() = %d, want %d", got, desktop.MaxDesktops)
	}
	if got := len(surface.layouts[0]); got != desktop.MaxDesktops {
		t.Fatalf("layout entries = %d, want %d", got, desktop.MaxDesktops)
	}
}

func TestCreate_NonEWMHWindowManagerShowsNoDesktops(t *testing.T) {
	root := desktoptest.New()

	c, surface := newTestController(t, root)

	if !c.Degraded() {
		t.Fatal("expected degraded controller")
	}
	if c.Count() != 0 || len(c.Entries()) != 0 {
		t.Fatalf("count = %d entries = %d, want 0", c.Count(), len(c.Entries()))
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", c.Phase())
	}

	c.Scroll(desktop.ScrollUp)
	c.Scroll(desktop.ScrollDown)
	c.Click(0)
	if len(root.Sent) != 0 {
		t.Fatalf("sent %d messages with no desktops, want 0", len(root.Sent))
	}
	if got := surface.last().Title; got != "Pager[0]" {
		t.Fatalf("title = %q", got)
	}
}

func TestCreate_LayoutErrorIsReturned(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 0)
	surface := &fakeSurface{layoutErr: errors.New("no window")}

	c := New(root, surface, Options{Retry: noWait()})
	if err := c.Create(context.Background(), true); err == nil {
		t.Fatal("expected layout error")
	}
	if c.Phase() == PhaseReady {
		t.Fatal("controller should not be ready after failed layout")
	}
}

func TestUpdate_FollowsWindowManager(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(3, 0)
	c, surface := newTestController(t, root)

	root.SetCardinal(desktop.AtomCurrentDesktop, 2)
	if err := c.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	f := surface.last()
	if got := activeIndex(f); got != 2 {
		t.Fatalf("active LED = %d, want 2", got)
	}
	if f.Title != "Pager[2]" {
		t.Fatalf("title = %q, want Pager[2]", f.Title)
	}
}

func TestUpdate_BeforeCreateIsNoop(t *testing.T) {
	surface := &fakeSurface{}
	c := New(desktoptest.New(), surface, Options{Retry: noWait()})
	if err := c.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(surface.frames) != 0 {
		t.Fatalf("painted %d frames before create", len(surface.frames))
	}
}

func TestClick_RequestsExactIndex(t *testing.T) {
	const n = 5
	for current := 0; current < n; current++ {
		for target := 0; target < n; target++ {
			root := desktoptest.New()
			root.SetDesktops(n, current)
			c, surface := newTestController(t, root)

			c.Click(target)

			if len(root.Sent) != 1 || root.Sent[0].Data[0] != uint32(target) {
				t.Fatalf("current=%d click %d sent %+v", current, target, root.Sent)
			}
			if c.Current() != target {
				t.Fatalf("current after click = %d, want %d", c.Current(), target)
			}
			if got := activeIndex(surface.last()); got != target {
				t.Fatalf("active LED after click = %d, want %d", got, target)
			}
		}
	}
}

func TestClick_OutOfRangeIgnored(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 0)
	c, _ := newTestController(t, root)

	c.Click(-1)
	c.Click(2)
	if len(root.Sent) != 0 {
		t.Fatalf("sent %d messages, want 0", len(root.Sent))
	}
}

func TestScroll_WrapScenario(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(4, 0)
	c, _ := newTestController(t, root)

	c.Scroll(desktop.ScrollUp)
	if c.Current() != 3 {
		t.Fatalf("scroll up from 0 = %d, want 3", c.Current())
	}
	c.Scroll(desktop.ScrollDown)
	if c.Current() != 0 {
		t.Fatalf("scroll down from 3 = %d, want 0", c.Current())
	}

	want := []uint32{3, 0}
	if len(root.Sent) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(root.Sent), len(want))
	}
	for i, w := range want {
		if got := root.Sent[i].Data; got != [5]uint32{w, 0, 0, 0, 0} {
			t.Fatalf("message %d data = %v, want [%d 0 0 0 0]", i, got, w)
		}
	}
}

func TestScroll_OptimisticBeforeWindowManagerConfirms(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(3, 0)
	c, _ := newTestController(t, root)

	// The window manager has not applied the request yet.
	c.Scroll(desktop.ScrollDown)
	c.Scroll(desktop.ScrollDown)
	if c.Current() != 2 {
		t.Fatalf("current = %d, want 2", c.Current())
	}
	if root.Sent[1].Data[0] != 2 {
		t.Fatalf("second request = %d, want 2", root.Sent[1].Data[0])
	}

	// The next tick reconciles with what the window manager reports.
	if err := c.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if c.Current() != 0 {
		t.Fatalf("current after tick = %d, want 0", c.Current())
	}
}

func TestScroll_AppliedSwitchSurvivesTick(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(3, 0)
	root.ApplySwitches = true
	c, surface := newTestController(t, root)

	c.Scroll(desktop.ScrollLeft)
	if err := c.Update(); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if c.Current() != 1 || root.Current() != 1 {
		t.Fatalf("current = %d, root = %d, want 1", c.Current(), root.Current())
	}
	if got := activeIndex(surface.last()); got != 1 {
		t.Fatalf("active LED = %d, want 1", got)
	}
}

func TestRebuild_PicksUpNewDesktops(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 0, "one", "two")
	c, surface := newTestController(t, root)

	root.SetDesktops(3, 2, "one", "two", "three")
	if err := c.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	if c.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", c.Phase())
	}
	if len(surface.layouts) != 2 {
		t.Fatalf("layouts = %d, want 2", len(surface.layouts))
	}
	if got := surface.layouts[1][2].Name; got != "three" {
		t.Fatalf("new entry name = %q, want three", got)
	}
	if got := activeIndex(surface.last()); got != 2 {
		t.Fatalf("active LED = %d, want 2", got)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 0)
	c, _ := newTestController(t, root)

	entries := c.Entries()
	entries[0].Name = "changed"
	if c.Entries()[0].Name == "changed" {
		t.Fatal("Entries() exposed internal state")
	}
}

func TestCustomTitle(t *testing.T) {
	root := desktoptest.New()
	root.SetDesktops(2, 1)
	surface := &fakeSurface{}
	c := New(root, surface, Options{Title: "Desks", Retry: noWait()})
	if err := c.Create(context.Background(), true); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if got := surface.last().Title; got != "Desks[1]" {
		t.Fatalf("title = %q, want Desks[1]", got)
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseUninitialized: "uninitialized",
		PhaseReading:       "reading",
		PhaseReady:         "ready",
		PhaseRebuilding:    "rebuilding",
		Phase(99):          "unknown",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
