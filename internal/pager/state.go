package pager

// Phase represents where the controller is in its create/update lifecycle
type Phase int

const (
	// PhaseUninitialized means Create has not run yet
	PhaseUninitialized Phase = iota
	// PhaseReading means atoms and desktop state are being resolved
	PhaseReading
	// PhaseReady means ticks and input are being served
	PhaseReady
	// PhaseRebuilding means a forced recreation is tearing down the entries
	PhaseRebuilding
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseReading:
		return "reading"
	case PhaseReady:
		return "ready"
	case PhaseRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// Entry is one desktop button on the panel.
type Entry struct {
	Index  int
	Name   string
	Active bool
}

// Frame is everything the surface paints on one update.
type Frame struct {
	Title   string
	Entries []Entry
}

// Surface is the drawing area the controller paints into.
type Surface interface {
	// Layout is called once per (re)creation with the full entry list.
	Layout(entries []Entry) error
	// Paint redraws the title and status indicators.
	Paint(frame Frame) error
}
