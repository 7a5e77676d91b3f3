package gui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/eepp/mononcgif/display"
	"github.com/eepp/mononcgif/eventloop"
	"github.com/eepp/mononcgif/region"
)

// highlightColor is the half-transparent red of the drag rectangle.
var highlightColor = color.NRGBA{R: 255, G: 0, B: 30, A: 128}

// newSelectorWindow builds the fullscreen region selector over a frozen
// snapshot of the chosen screen. Enter confirms the dragged rectangle,
// Escape (or closing the window) cancels the whole run.
func (a *App) newSelectorWindow(geo display.Geometry, shot image.Image) fyne.Window {
	w := a.app.NewWindow("Capture")
	w.SetCloseIntercept(func() { a.post(eventloop.SelectionCancelled{}) })

	backdrop := canvas.NewImageFromImage(shot)
	backdrop.FillMode = canvas.ImageFillStretch
	area := newSelectionArea()
	w.SetContent(container.NewStack(backdrop, area))
	w.SetPadded(false)
	w.SetFullScreen(true)

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			a.post(eventloop.SelectionCancelled{})
		case fyne.KeyReturn, fyne.KeyEnter:
			sel, ok := area.tracker.Bounds()
			if !ok {
				return
			}
			a.post(eventloop.SelectionDone{
				Sel: mapToScreen(sel, geo, shot.Bounds(), area.Size()),
			})
		}
	})
	return w
}

// mapToScreen converts a selection in window units to global screen pixels:
// the snapshot's pixel size over the window size gives the scale, the
// screen's position the offset.
func mapToScreen(sel region.Region, geo display.Geometry, shot image.Rectangle, size fyne.Size) region.Region {
	scaleX, scaleY := 1.0, 1.0
	if size.Width > 0 {
		scaleX = float64(shot.Dx()) / float64(size.Width)
	}
	if size.Height > 0 {
		scaleY = float64(shot.Dy()) / float64(size.Height)
	}
	x, y, w, h := sel.Rect()
	origin := region.Point{
		X: geo.X + int(math.Round(float64(x)*scaleX)),
		Y: geo.Y + int(math.Round(float64(y)*scaleY)),
	}
	return region.Region{
		Origin: origin,
		End: region.Point{
			X: origin.X + int(math.Round(float64(w)*scaleX)),
			Y: origin.Y + int(math.Round(float64(h)*scaleY)),
		},
	}
}

var (
	_ desktop.Mouseable  = (*selectionArea)(nil)
	_ desktop.Hoverable  = (*selectionArea)(nil)
	_ desktop.Cursorable = (*selectionArea)(nil)
	_ fyne.Draggable     = (*selectionArea)(nil)
)

// selectionArea is the transparent layer that tracks the drag gesture and
// draws the highlight rectangle over the snapshot.
type selectionArea struct {
	widget.BaseWidget
	tracker   *region.Tracker
	highlight *canvas.Rectangle
}

func newSelectionArea() *selectionArea {
	s := &selectionArea{
		tracker:   region.NewTracker(),
		highlight: canvas.NewRectangle(highlightColor),
	}
	s.highlight.Hide()
	s.ExtendBaseWidget(s)
	return s
}

func (s *selectionArea) CreateRenderer() fyne.WidgetRenderer {
	return &selectionRenderer{area: s}
}

func (s *selectionArea) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (s *selectionArea) MouseDown(ev *desktop.MouseEvent) {
	s.tracker.Press(toPoint(ev.Position))
	s.Refresh()
}

func (s *selectionArea) MouseUp(ev *desktop.MouseEvent) {
	s.tracker.Release()
	s.Refresh()
}

// Dragged feeds the grow-only tracker; moves above or left of the drag
// origin are discarded there.
func (s *selectionArea) Dragged(ev *fyne.DragEvent) {
	if s.tracker.Move(toPoint(ev.Position)) {
		s.Refresh()
	}
}

func (s *selectionArea) DragEnd() {
	s.tracker.Release()
	s.Refresh()
}

// Hoverable keeps the widget receiving pointer events so the crosshair
// cursor applies over the whole surface.
func (s *selectionArea) MouseIn(*desktop.MouseEvent)    {}
func (s *selectionArea) MouseMoved(*desktop.MouseEvent) {}
func (s *selectionArea) MouseOut()                      {}

func toPoint(p fyne.Position) region.Point {
	return region.Point{
		X: int(math.Round(float64(p.X))),
		Y: int(math.Round(float64(p.Y))),
	}
}

type selectionRenderer struct {
	area *selectionArea
}

func (r *selectionRenderer) Layout(fyne.Size) {}

func (r *selectionRenderer) MinSize() fyne.Size { return fyne.NewSize(0, 0) }

func (r *selectionRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.area.highlight}
}

func (r *selectionRenderer) Refresh() {
	sel, ok := r.area.tracker.Bounds()
	if !ok {
		r.area.highlight.Hide()
		return
	}
	x, y, w, h := sel.Rect()
	r.area.highlight.Move(fyne.NewPos(float32(x), float32(y)))
	r.area.highlight.Resize(fyne.NewSize(float32(w), float32(h)))
	r.area.highlight.Show()
	r.area.highlight.Refresh()
}

func (r *selectionRenderer) Destroy() {}
