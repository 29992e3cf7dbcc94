package desktop_test

import (
	"testing"

	"github.com/1broseidon/deskpager/internal/desktop"
)

func TestScroll_FourDesktops(t *testing.T) {
	const count = 4

	tests := []struct {
		name     string
		current  int
		dir      desktop.ScrollDirection
		expected int
	}{
		// Basic movement
		{"down from 0", 0, desktop.ScrollDown, 1},
		{"left from 1", 1, desktop.ScrollLeft, 2},
		{"up from 2", 2, desktop.ScrollUp, 1},
		{"right from 2", 2, desktop.ScrollRight, 1},

		// Wrapping
		{"up wrap from 0", 0, desktop.ScrollUp, 3},
		{"right wrap from 0", 0, desktop.ScrollRight, 3},
		{"down wrap from 3", 3, desktop.ScrollDown, 0},
		{"left wrap from 3", 3, desktop.ScrollLeft, 0},

		// Stale index from before the desktop count shrank
		{"down from stale 9", 9, desktop.ScrollDown, 2},
		{"up from stale 4", 4, desktop.ScrollUp, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := desktop.Scroll(tt.current, count, tt.dir)
			if !ok {
				t.Fatalf("Scroll(%d, %d, %v) not ok", tt.current, count, tt.dir)
			}
			if got != tt.expected {
				t.Errorf("Scroll(%d, %d, %v) = %d, want %d", tt.current, count, tt.dir, got, tt.expected)
			}
		})
	}
}

func TestScroll_WrapBoundsForAllCounts(t *testing.T) {
	for n := 1; n <= 32; n++ {
		if got, ok := desktop.Scroll(0, n, desktop.ScrollUp); !ok || got != n-1 {
			t.Fatalf("n=%d: scroll up from 0 = %d,%v; want %d", n, got, ok, n-1)
		}
		if got, ok := desktop.Scroll(n-1, n, desktop.ScrollDown); !ok || got != 0 {
			t.Fatalf("n=%d: scroll down from %d = %d,%v; want 0", n, n-1, got, ok)
		}
		for i := 0; i < n; i++ {
			next, _ := desktop.Scroll(i, n, desktop.ScrollDown)
			if next < 0 || next >= n {
				t.Fatalf("n=%d: scroll down from %d escaped range: %d", n, i, next)
			}
			back, _ := desktop.Scroll(next, n, desktop.ScrollUp)
			if back != i {
				t.Fatalf("n=%d: down then up from %d = %d", n, i, back)
			}
		}
	}
}

func TestScroll_NoDesktops(t *testing.T) {
	for _, dir := range []desktop.ScrollDirection{desktop.ScrollUp, desktop.ScrollDown, desktop.ScrollLeft, desktop.ScrollRight} {
		got, ok := desktop.Scroll(0, 0, dir)
		if ok {
			t.Fatalf("Scroll with zero desktops (%v) reported ok", dir)
		}
		if got != 0 {
			t.Fatalf("Scroll with zero desktops (%v) = %d, want 0", dir, got)
		}
	}
}

func TestScrollDirectionString(t *testing.T) {
	if got := desktop.ScrollLeft.String(); got != "left" {
		t.Fatalf("ScrollLeft.String() = %q", got)
	}
	if got := desktop.ScrollDirection(42).String(); got != "unknown" {
		t.Fatalf("unknown direction String() = %q", got)
	}
}
