package gui

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/eepp/mononcgif/display"
	"github.com/eepp/mononcgif/eventloop"
	"github.com/eepp/mononcgif/pipeline"
	"github.com/eepp/mononcgif/probe"
	"github.com/eepp/mononcgif/region"
)

// postRecorder collects coordinator messages posted by widget handlers.
// Handlers run on the test driver's goroutine, so no locking is needed.
type postRecorder struct {
	msgs []eventloop.Message
}

func (p *postRecorder) post(m eventloop.Message) { p.msgs = append(p.msgs, m) }

func testApp(t *testing.T) (*App, *postRecorder) {
	t.Helper()
	rec := &postRecorder{}
	return New(test.NewApp(), rec.post), rec
}

func TestPickerContentButtons(t *testing.T) {
	test.NewApp()
	geos := []display.Geometry{
		{Width: 1920, Height: 1080},
		{X: 1920, Width: 1280, Height: 1024},
	}
	var chosen []display.Geometry
	content := pickerContent(geos, func(g display.Geometry) { chosen = append(chosen, g) })

	vbox := content.(*fyne.Container)
	title := vbox.Objects[0].(*widget.Label)
	if title.Text != "Select screen:" || !title.TextStyle.Bold {
		t.Errorf("unexpected title label: %q", title.Text)
	}

	row := vbox.Objects[1].(*fyne.Container)
	if len(row.Objects) != len(geos) {
		t.Fatalf("%d buttons, want %d", len(row.Objects), len(geos))
	}
	for i, want := range []string{"1920x1080", "1280x1024"} {
		if got := row.Objects[i].(*widget.Button).Text; got != want {
			t.Errorf("button %d labeled %q, want %q", i, got, want)
		}
	}

	test.Tap(row.Objects[1].(*widget.Button))
	if len(chosen) != 1 || chosen[0] != geos[1] {
		t.Errorf("unexpected choice: %+v", chosen)
	}
}

func mouseAt(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func dragTo(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestSelectionAreaHighlightFollowsDrag(t *testing.T) {
	test.NewApp()
	area := newSelectionArea()
	test.WidgetRenderer(area)
	area.Resize(fyne.NewSize(400, 300))

	if area.highlight.Visible() {
		t.Fatal("highlight visible before any press")
	}

	area.MouseDown(mouseAt(50, 40))
	area.Dragged(dragTo(150, 90))
	if pos := area.highlight.Position(); pos.X != 50 || pos.Y != 40 {
		t.Errorf("unexpected highlight position: %v", pos)
	}
	if size := area.highlight.Size(); size.Width != 100 || size.Height != 50 {
		t.Errorf("unexpected highlight size: %v", size)
	}

	// drags above or left of the origin are ignored
	area.Dragged(dragTo(20, 10))
	if size := area.highlight.Size(); size.Width != 100 || size.Height != 50 {
		t.Errorf("highlight shrank: %v", size)
	}

	area.MouseUp(mouseAt(150, 90))
	area.DragEnd()
	sel, ok := area.tracker.Bounds()
	if !ok {
		t.Fatal("no selection after release")
	}
	x, y, w, h := sel.Rect()
	if x != 50 || y != 40 || w != 100 || h != 50 {
		t.Errorf("unexpected selection: %d,%d %dx%d", x, y, w, h)
	}
}

func TestMapToScreenScalesAndOffsets(t *testing.T) {
	sel := selRegion(10, 10, 110, 60)
	geo := display.Geometry{X: 1920, Y: 0, Width: 1280, Height: 1024}
	shot := image.Rect(0, 0, 2560, 2048)

	got := mapToScreen(sel, geo, shot, fyne.NewSize(1280, 1024))
	x, y, w, h := got.Rect()
	if x != 1940 || y != 20 || w != 200 || h != 100 {
		t.Errorf("unexpected mapping: %d,%d %dx%d", x, y, w, h)
	}
}

func TestMapToScreenIdentity(t *testing.T) {
	sel := selRegion(5, 6, 25, 36)
	geo := display.Geometry{Width: 800, Height: 600}
	shot := image.Rect(0, 0, 800, 600)

	if got := mapToScreen(sel, geo, shot, fyne.NewSize(800, 600)); got != sel {
		t.Errorf("identity mapping changed the region: %+v", got)
	}
}

func selRegion(x0, y0, x1, y1 int) region.Region {
	return region.Region{
		Origin: region.Point{X: x0, Y: y0},
		End:    region.Point{X: x1, Y: y1},
	}
}

func TestSliderCouplingDragsCompanion(t *testing.T) {
	a, rec := testApp(t)
	c := newConfigurator(a, probe.Info{DurationMillis: 10001, Width: 400})

	if c.endSlide.Value != 10000 {
		t.Fatalf("end slider starts at %v, want 10000", c.endSlide.Value)
	}

	c.endSlide.SetValue(5000)
	if c.rangeLabel.Text != "[0.000, 5.000] s" {
		t.Errorf("unexpected range label: %q", c.rangeLabel.Text)
	}

	// start crossing the end drags the end along, without echoing back
	c.startSlide.SetValue(8000)
	if c.endSlide.Value != 8000 {
		t.Errorf("end slider did not follow: %v", c.endSlide.Value)
	}
	if c.rangeLabel.Text != "[8.000, 8.000] s" {
		t.Errorf("unexpected range label: %q", c.rangeLabel.Text)
	}

	c.startSlide.SetValue(2000)
	if c.endSlide.Value != 8000 {
		t.Errorf("end slider moved on a non-crossing update: %v", c.endSlide.Value)
	}

	// one seek per direct move, none for the forced companion updates
	var seeks []float64
	for _, m := range rec.msgs {
		if s, ok := m.(eventloop.SeekRequested); ok {
			seeks = append(seeks, s.Seconds)
		}
	}
	want := []float64{5, 8, 2}
	if len(seeks) != len(want) {
		t.Fatalf("unexpected seeks: %v", seeks)
	}
	for i := range want {
		if seeks[i] != want[i] {
			t.Errorf("seek %d = %v, want %v", i, seeks[i], want[i])
		}
	}
}

func TestConfiguratorCreateShipsRawFields(t *testing.T) {
	a, rec := testApp(t)
	c := newConfigurator(a, probe.Info{DurationMillis: 10001, Width: 400})

	if c.widthEntry.Text != "400" {
		t.Errorf("width prefill %q, want the probed width", c.widthEntry.Text)
	}
	if c.rateEntry.Text != "10" || c.colorsEntry.Text != "128" {
		t.Errorf("unexpected defaults: %q %q", c.rateEntry.Text, c.colorsEntry.Text)
	}

	c.widthEntry.SetText("abc")
	test.Tap(c.create)

	if len(rec.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(rec.msgs))
	}
	m, ok := rec.msgs[0].(eventloop.CreateRequested)
	if !ok {
		t.Fatalf("unexpected message %T", rec.msgs[0])
	}
	if m.WidthText != "abc" || m.FrameRateText != "10" || m.ColorsText != "128" {
		t.Errorf("unexpected fields: %+v", m)
	}
	if m.StartSeconds != 0 || m.EndSeconds != 10 {
		t.Errorf("unexpected trim bounds: %v..%v", m.StartSeconds, m.EndSeconds)
	}
}

func TestConfiguratorWidthFallback(t *testing.T) {
	a, _ := testApp(t)
	c := newConfigurator(a, probe.Info{DurationMillis: 5000})
	if c.widthEntry.Text != "320" {
		t.Errorf("width prefill %q, want the default", c.widthEntry.Text)
	}
}

func TestRecordingWindowStop(t *testing.T) {
	a, rec := testApp(t)
	r := newRecordingWindow(a, "ctrl+alt+s")
	defer r.win.Close()

	test.Tap(r.stop)
	if len(rec.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(rec.msgs))
	}
	if _, ok := rec.msgs[0].(eventloop.StopRequested); !ok {
		t.Fatalf("unexpected message %T", rec.msgs[0])
	}

	r.stopped()
	if !r.stop.Disabled() {
		t.Error("stop button still enabled after the stop")
	}
	if r.status.Text != "Finalizing the capture..." {
		t.Errorf("unexpected status: %q", r.status.Text)
	}
}

func TestShowResultUpdatesPreviewAndSize(t *testing.T) {
	a, _ := testApp(t)
	c := newConfigurator(a, probe.Info{DurationMillis: 5000, Width: 100})

	path := filepath.Join(t.TempDir(), "out-opti.gif")
	writeTestGIF(t, path)

	c.showResult(pipeline.Result{Path: path, SizeBytes: 1572864})
	if c.sizeLabel.Text != "1.500 MiB" {
		t.Errorf("unexpected size label: %q", c.sizeLabel.Text)
	}
}

func writeTestGIF(t *testing.T, path string) {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	g := &gif.GIF{Image: []*image.Paletted{img}, Delay: []int{10}}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}
