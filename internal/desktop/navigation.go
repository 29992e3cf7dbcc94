package desktop

// ScrollDirection is the direction of a scroll event over the panel.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
)

// String returns the string representation of the direction
func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	default:
		return "unknown"
	}
}

// Scroll calculates the desktop index after a scroll step.
// Up and right move to the previous desktop, down and left to the next one.
// Both wrap around. ok is false when there are no desktops to move between.
func Scroll(current, count int, dir ScrollDirection) (next int, ok bool) {
	if count <= 0 {
		return current, false
	}
	current = ((current % count) + count) % count

	switch dir {
	case ScrollUp, ScrollRight:
		current--
		if current < 0 {
			current = count - 1
		}
	case ScrollDown, ScrollLeft:
		current = (current + 1) % count
	default:
		return current, false
	}
	return current, true
}
