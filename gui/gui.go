package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/eepp/mononcgif/display"
	"github.com/eepp/mononcgif/eventloop"
	"github.com/eepp/mononcgif/pipeline"
	"github.com/eepp/mononcgif/probe"
)

// App drives the stage windows on a fyne app. Every method is called from
// the coordinator goroutine and hops to the fyne thread with fyne.Do.
// Window close buttons are intercepted and posted as messages instead, so
// the coordinator stays the only place that decides when the process ends.
type App struct {
	app  fyne.App
	post func(eventloop.Message)

	current fyne.Window
	rec     *recordingWindow
	conf    *configurator
}

// New wraps a fyne app. post delivers UI events to the coordinator.
func New(a fyne.App, post func(eventloop.Message)) *App {
	return &App{app: a, post: post}
}

// swap shows the next stage window before closing the previous one. The
// ordering matters: the fyne driver ends its run loop once no window is
// left open.
func (a *App) swap(next fyne.Window) {
	prev := a.current
	a.current = next
	next.Show()
	if prev != nil {
		prev.Close()
	}
}

func (a *App) ShowPicker(geos []display.Geometry) {
	fyne.Do(func() { a.swap(a.newPickerWindow(geos)) })
}

func (a *App) ShowSelector(geo display.Geometry, shot image.Image) {
	fyne.Do(func() { a.swap(a.newSelectorWindow(geo, shot)) })
}

func (a *App) ShowRecording(stopHotkey string) {
	fyne.Do(func() {
		a.rec = newRecordingWindow(a, stopHotkey)
		a.swap(a.rec.win)
	})
}

func (a *App) RecordingStopped() {
	fyne.Do(func() {
		if a.rec != nil {
			a.rec.stopped()
		}
	})
}

func (a *App) ShowConfigurator(info probe.Info) {
	fyne.Do(func() {
		a.conf = newConfigurator(a, info)
		a.rec = nil
		a.swap(a.conf.win)
	})
}

func (a *App) ShowCreateError(err error) {
	fyne.Do(func() {
		if a.conf != nil {
			dialog.ShowError(err, a.conf.win)
		}
	})
}

func (a *App) ShowCreateBusy() {
	fyne.Do(func() {
		if a.conf != nil {
			dialog.ShowInformation("Create GIF", "An export is already running.", a.conf.win)
		}
	})
}

func (a *App) ShowExportResult(res pipeline.Result) {
	fyne.Do(func() {
		if a.conf != nil {
			a.conf.showResult(res)
		}
	})
}

func (a *App) Quit() {
	fyne.Do(func() { a.app.Quit() })
}
