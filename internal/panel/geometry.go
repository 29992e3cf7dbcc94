package panel

// Rect describes a rectangular region in window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Geometry lays out the title row and one button row per desktop, top to
// bottom. The LED sits at the left margin and the button takes the rest of
// the row, as in a gkrellm meter panel.
type Geometry struct {
	Width       int
	Margin      int
	TitleHeight int
	RowHeight   int
	RowGap      int
	LEDSize     int
}

// DefaultGeometry returns the layout used for a panel of the given width.
func DefaultGeometry(width int) Geometry {
	return Geometry{
		Width:       width,
		Margin:      3,
		TitleHeight: 14,
		RowHeight:   14,
		RowGap:      4,
		LEDSize:     8,
	}
}

// Height returns the window height needed for n desktops.
func (g Geometry) Height(n int) int {
	h := g.Margin + g.TitleHeight + 2
	if n > 0 {
		h += n*g.RowHeight + (n-1)*g.RowGap
	}
	return h + g.Margin
}

// Title returns the title row.
func (g Geometry) Title() Rect {
	return Rect{X: g.Margin, Y: g.Margin, Width: g.Width - 2*g.Margin, Height: g.TitleHeight}
}

// Row returns the full row for desktop i.
func (g Geometry) Row(i int) Rect {
	y := g.Margin + g.TitleHeight + 2 + i*(g.RowHeight+g.RowGap)
	return Rect{X: g.Margin, Y: y, Width: g.Width - 2*g.Margin, Height: g.RowHeight}
}

// LED returns the status indicator of desktop i, vertically centred in its row.
func (g Geometry) LED(i int) Rect {
	row := g.Row(i)
	return Rect{
		X:      row.X,
		Y:      row.Y + (row.Height-g.LEDSize)/2,
		Width:  g.LEDSize,
		Height: g.LEDSize,
	}
}

// Button returns the clickable label of desktop i.
func (g Geometry) Button(i int) Rect {
	row := g.Row(i)
	x := row.X + g.LEDSize + 2
	return Rect{X: x, Y: row.Y, Width: row.X + row.Width - x, Height: row.Height}
}

// HitTest returns the desktop whose button contains the point.
func (g Geometry) HitTest(x, y, n int) (int, bool) {
	for i := 0; i < n; i++ {
		if g.Button(i).Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}
