package region

import (
	"math/rand"
	"testing"
)

func TestTrackerStartsIdle(t *testing.T) {
	tr := NewTracker()
	if tr.State() != Idle {
		t.Errorf("expected Idle, got %v", tr.State())
	}
	if _, ok := tr.Bounds(); ok {
		t.Error("expected no bounds before the first press")
	}
}

func TestTrackerGrowsDownRight(t *testing.T) {
	tr := NewTracker()
	tr.Press(Point{X: 100, Y: 100})

	moves := []struct {
		p    Point
		want bool
	}{
		{Point{X: 150, Y: 130}, true},
		{Point{X: 90, Y: 200}, false},  // left of origin
		{Point{X: 200, Y: 90}, false},  // above origin
		{Point{X: 150, Y: 130}, false}, // same position
		{Point{X: 500, Y: 400}, true},
	}
	for i, m := range moves {
		if got := tr.Move(m.p); got != m.want {
			t.Errorf("move %d to %+v: got %v, want %v", i, m.p, got, m.want)
		}
	}

	r, ok := tr.Bounds()
	if !ok {
		t.Fatal("expected bounds after dragging")
	}
	if r.Origin != (Point{X: 100, Y: 100}) || r.End != (Point{X: 500, Y: 400}) {
		t.Errorf("unexpected region: %+v", r)
	}
	x, y, w, h := r.Rect()
	if x != 100 || y != 100 || w != 400 || h != 300 {
		t.Errorf("unexpected rect: %d,%d %dx%d", x, y, w, h)
	}
}

func TestTrackerReleaseFreezesRectangle(t *testing.T) {
	tr := NewTracker()
	tr.Press(Point{X: 10, Y: 10})
	tr.Move(Point{X: 50, Y: 60})
	tr.Release()

	if tr.State() != Released {
		t.Fatalf("expected Released, got %v", tr.State())
	}
	if tr.Move(Point{X: 300, Y: 300}) {
		t.Error("move after release should be ignored")
	}
	r, _ := tr.Bounds()
	if r.End != (Point{X: 50, Y: 60}) {
		t.Errorf("rectangle moved after release: %+v", r)
	}
}

func TestTrackerPressRestartsSelection(t *testing.T) {
	tr := NewTracker()
	tr.Press(Point{X: 10, Y: 10})
	tr.Move(Point{X: 20, Y: 20})
	tr.Release()

	tr.Press(Point{X: 50, Y: 50})
	if tr.State() != Dragging {
		t.Fatalf("expected Dragging after second press, got %v", tr.State())
	}
	r, _ := tr.Bounds()
	if r.Origin != (Point{X: 50, Y: 50}) || r.End != (Point{X: 50, Y: 50}) {
		t.Errorf("second press should restart the rectangle, got %+v", r)
	}
}

func TestTrackerDegenerateClick(t *testing.T) {
	tr := NewTracker()
	tr.Press(Point{X: 5, Y: 5})
	tr.Release()

	r, ok := tr.Bounds()
	if !ok {
		t.Fatal("a click without movement still selects a degenerate region")
	}
	_, _, w, h := r.Rect()
	if w != 0 || h != 0 {
		t.Errorf("expected zero-size rect, got %dx%d", w, h)
	}
}

// Any sequence of presses, moves and releases must keep the reported region
// ordered: the end corner never sits above or left of the origin.
func TestTrackerInvariantUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := NewTracker()

	for i := 0; i < 5000; i++ {
		p := Point{X: rng.Intn(4000) - 1000, Y: rng.Intn(4000) - 1000}
		switch rng.Intn(10) {
		case 0:
			tr.Press(p)
		case 1:
			tr.Release()
		default:
			tr.Move(p)
		}

		r, ok := tr.Bounds()
		if !ok {
			continue
		}
		if r.End.X < r.Origin.X || r.End.Y < r.Origin.Y {
			t.Fatalf("step %d: invariant broken: %+v", i, r)
		}
	}
}
