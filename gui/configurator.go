package gui

import (
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	xwidget "fyne.io/x/fyne/widget"

	"github.com/eepp/mononcgif/eventloop"
	"github.com/eepp/mononcgif/export"
	"github.com/eepp/mononcgif/pipeline"
	"github.com/eepp/mononcgif/probe"
	"github.com/eepp/mononcgif/trim"
)

// configurator is the trim-and-export window. It owns the coupled trim
// sliders and the three export fields; Create ships their raw state to the
// coordinator, which validates and runs the pipeline.
type configurator struct {
	win fyne.Window

	rng        *trim.Range
	rangeLabel *widget.Label
	startSlide *widget.Slider
	endSlide   *widget.Slider
	syncing    bool

	widthEntry  *widget.Entry
	rateEntry   *widget.Entry
	colorsEntry *widget.Entry
	create      *widget.Button

	preview   *xwidget.AnimatedGif
	sizeLabel *widget.Label
}

func newConfigurator(a *App, info probe.Info) *configurator {
	c := &configurator{}
	c.win = a.app.NewWindow("Create GIF")

	// the last millisecond is not seekable, keep it out of the range
	maxMillis := info.DurationMillis - 1
	if maxMillis < 1 {
		maxMillis = 1
	}
	c.rng = trim.New(maxMillis)

	c.rangeLabel = widget.NewLabel(c.rng.Label())
	c.startSlide = newTrimSlider(maxMillis)
	c.endSlide = newTrimSlider(maxMillis)
	c.endSlide.SetValue(float64(maxMillis))
	c.startSlide.OnChanged = func(v float64) { c.startMoved(a, v) }
	c.endSlide.OnChanged = func(v float64) { c.endMoved(a, v) }

	width := info.Width
	if width <= 0 {
		width = export.DefaultWidth
	}
	c.widthEntry = newIntEntry("GIF width", strconv.Itoa(width))
	c.rateEntry = newIntEntry("Frame rate", strconv.Itoa(export.DefaultFrameRate))
	c.colorsEntry = newIntEntry("Colors", strconv.Itoa(export.DefaultColors))

	c.create = widget.NewButton("Create", func() {
		a.post(eventloop.CreateRequested{
			WidthText:     c.widthEntry.Text,
			FrameRateText: c.rateEntry.Text,
			ColorsText:    c.colorsEntry.Text,
			StartSeconds:  c.rng.StartSeconds(),
			EndSeconds:    c.rng.EndSeconds(),
		})
	})

	c.preview, _ = xwidget.NewAnimatedGif(nil)
	c.preview.SetMinSize(fyne.NewSize(260, 220))
	c.sizeLabel = widget.NewLabel("")

	left := container.NewVBox(
		container.NewHBox(
			widget.NewLabelWithStyle("Selected range: ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			c.rangeLabel,
		),
		c.startSlide,
		c.endSlide,
		c.widthEntry,
		c.rateEntry,
		c.colorsEntry,
		container.NewHBox(layout.NewSpacer(), c.create),
	)
	right := container.NewVBox(
		container.NewHBox(
			widget.NewLabelWithStyle("GIF preview: ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			c.sizeLabel,
		),
		c.preview,
	)

	c.win.SetContent(container.NewGridWithColumns(2, left, right))
	c.win.Resize(fyne.NewSize(600, 400))
	c.win.CenterOnScreen()
	c.win.SetCloseIntercept(func() { a.post(eventloop.ConfiguratorClosed{}) })
	return c
}

func newTrimSlider(maxMillis int64) *widget.Slider {
	s := widget.NewSlider(0, float64(maxMillis))
	s.Step = 100
	return s
}

func newIntEntry(placeholder, initial string) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	e.Validator = validation.NewRegexp(`^[0-9]+$`, "must be a whole number")
	e.SetText(initial)
	return e
}

// startMoved applies a start slider move: seek the preview, clamp through
// the trim range and drag the end slider along when the handles cross. The
// syncing flag keeps the forced companion update from echoing back.
func (c *configurator) startMoved(a *App, v float64) {
	if c.syncing {
		return
	}
	a.post(eventloop.SeekRequested{Seconds: v / 1000})
	if c.rng.SetStart(int64(v)) {
		c.syncing = true
		c.endSlide.SetValue(float64(c.rng.End()))
		c.syncing = false
	}
	c.rangeLabel.SetText(c.rng.Label())
}

func (c *configurator) endMoved(a *App, v float64) {
	if c.syncing {
		return
	}
	a.post(eventloop.SeekRequested{Seconds: v / 1000})
	if c.rng.SetEnd(int64(v)) {
		c.syncing = true
		c.startSlide.SetValue(float64(c.rng.Start()))
		c.syncing = false
	}
	c.rangeLabel.SetText(c.rng.Label())
}

// showResult reloads the GIF preview pane with the fresh artifact and
// updates the size readout.
func (c *configurator) showResult(res pipeline.Result) {
	c.sizeLabel.SetText(res.SizeLabel())
	c.preview.Stop()
	if err := c.preview.Load(storage.NewFileURI(res.Path)); err != nil {
		log.Printf("Failed to load the GIF preview: %v", err)
		return
	}
	c.preview.Start()
}
