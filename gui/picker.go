package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/eepp/mononcgif/display"
	"github.com/eepp/mononcgif/eventloop"
)

// newPickerWindow builds the screen picker: one button per screen, labeled
// with the screen's pixel size. Closing it aborts the whole run.
func (a *App) newPickerWindow(geos []display.Geometry) fyne.Window {
	w := a.app.NewWindow("Select screen")
	w.SetCloseIntercept(func() { a.post(eventloop.PickerClosed{}) })
	w.SetContent(pickerContent(geos, func(g display.Geometry) {
		a.post(eventloop.ScreenChosen{Geo: g})
	}))
	w.SetFixedSize(true)
	w.CenterOnScreen()
	return w
}

func pickerContent(geos []display.Geometry, chosen func(display.Geometry)) fyne.CanvasObject {
	buttons := container.NewHBox()
	for _, g := range geos {
		buttons.Add(widget.NewButton(g.Label(), func() { chosen(g) }))
	}
	title := widget.NewLabelWithStyle("Select screen:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return container.NewVBox(title, buttons)
}
