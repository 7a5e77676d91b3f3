package display

import "testing"

func TestGeometryLabel(t *testing.T) {
	cases := []struct {
		geo  Geometry
		want string
	}{
		{Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}, "1920x1080"},
		{Geometry{X: 1920, Y: 0, Width: 1280, Height: 1024}, "1280x1024"},
	}
	for _, c := range cases {
		if got := c.geo.Label(); got != c.want {
			t.Errorf("label for %+v: got %q, want %q", c.geo, got, c.want)
		}
	}
}

func TestSnapshotRejectsDegenerateGeometry(t *testing.T) {
	if _, err := Snapshot(Geometry{Width: 0, Height: 100}); err == nil {
		t.Error("expected an error for zero width")
	}
	if _, err := Snapshot(Geometry{Width: 100, Height: -1}); err == nil {
		t.Error("expected an error for negative height")
	}
}

func TestListAgainstRealDisplays(t *testing.T) {
	geos, err := List()
	if err != nil {
		t.Skipf("no display session: %v", err)
	}
	for i, g := range geos {
		if g.Width <= 0 || g.Height <= 0 {
			t.Errorf("display %d has degenerate geometry: %+v", i, g)
		}
	}
}
