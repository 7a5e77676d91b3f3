package display

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Geometry is the position and size of one monitor inside the virtual
// screen, in pixels. Queried once at startup and treated as immutable.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Label renders the geometry the way the screen picker buttons show it.
func (g Geometry) Label() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// List returns one Geometry per active display, in system enumeration order.
func List() ([]Geometry, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	geos := make([]Geometry, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		geos = append(geos, Geometry{
			X:      bounds.Min.X,
			Y:      bounds.Min.Y,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
	}
	return geos, nil
}

// Snapshot captures the monitor's current content. The selection overlay
// shows it as a frozen backdrop while the user drags.
func Snapshot(g Geometry) (*image.RGBA, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("invalid display dimensions: width=%d, height=%d", g.Width, g.Height)
	}
	img, err := screenshot.CaptureRect(image.Rect(g.X, g.Y, g.X+g.Width, g.Y+g.Height))
	if err != nil {
		return nil, fmt.Errorf("failed to capture display: %v", err)
	}
	return img, nil
}
