package region

// Point is a position, in pixels. Whether it is window-relative or absolute
// screen coordinates depends on who produced it; the overlay tracks
// window-relative points and maps them to screen pixels on confirmation.
type Point struct {
	X int
	Y int
}

// Region is a user-dragged rectangle. End never sits above or to the left of
// Origin: updates that would violate that are discarded by the Tracker.
type Region struct {
	Origin Point
	End    Point
}

// Rect returns the region as x, y, width, height. Width and height may be
// zero when the drag never moved.
func (r Region) Rect() (x, y, w, h int) {
	return r.Origin.X, r.Origin.Y, r.End.X - r.Origin.X, r.End.Y - r.Origin.Y
}

// State identifies where a drag gesture currently stands.
type State int

const (
	// Idle means no drag has started yet.
	Idle State = iota
	// Dragging means the pointer is down and the rectangle is growing.
	Dragging
	// Released means the pointer went up and the rectangle is frozen.
	Released
)

// Tracker is the drag state machine behind the selection overlay. The
// rectangle grows down and right from the initial press; moves that would
// shrink it past the origin on either axis are ignored. A new press after a
// release discards the previous rectangle and starts over.
type Tracker struct {
	state  State
	origin Point
	cur    Point
	has    bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// State returns the current drag state.
func (t *Tracker) State() State {
	return t.state
}

// Press starts a drag at p.
func (t *Tracker) Press(p Point) {
	t.state = Dragging
	t.origin = p
	t.cur = p
	t.has = true
}

// Move extends the rectangle to p while a drag is in progress. It reports
// whether the rectangle changed, so callers only repaint when needed.
func (t *Tracker) Move(p Point) bool {
	if t.state != Dragging {
		return false
	}
	if p.X < t.origin.X || p.Y < t.origin.Y {
		return false
	}
	if p == t.cur {
		return false
	}
	t.cur = p
	return true
}

// Release freezes the rectangle at its last tracked value. The selection
// stays available for confirmation.
func (t *Tracker) Release() {
	if t.state == Dragging {
		t.state = Released
	}
}

// Bounds returns the rectangle tracked so far. The second return is false
// until the first press.
func (t *Tracker) Bounds() (Region, bool) {
	if !t.has {
		return Region{}, false
	}
	return Region{Origin: t.origin, End: t.cur}, true
}
