package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/eepp/mononcgif/eventloop"
)

// recordingWindow is the small monitor shown while the capture tool runs:
// an elapsed readout and the three ways to stop (button, hotkey, close).
type recordingWindow struct {
	win     fyne.Window
	status  *widget.Label
	elapsed *widget.Label
	stop    *widget.Button
	done    chan struct{}
}

func newRecordingWindow(a *App, stopHotkey string) *recordingWindow {
	r := &recordingWindow{done: make(chan struct{})}
	r.win = a.app.NewWindow("Recording")

	r.status = widget.NewLabel("Recording the selected region.")
	r.elapsed = widget.NewLabel("0:00")
	hint := widget.NewLabel(fmt.Sprintf("Press %s or click Stop to finish.", stopHotkey))
	r.stop = widget.NewButton("Stop", func() { a.post(eventloop.StopRequested{}) })

	r.win.SetContent(container.NewVBox(r.status, r.elapsed, hint, r.stop))
	r.win.SetCloseIntercept(func() { a.post(eventloop.StopRequested{}) })
	r.win.SetOnClosed(func() { close(r.done) })
	r.win.SetFixedSize(true)
	r.win.CenterOnScreen()

	start := time.Now()
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-r.done:
				return
			case <-tick.C:
				secs := int(time.Since(start).Round(time.Second).Seconds())
				fyne.Do(func() {
					r.elapsed.SetText(fmt.Sprintf("%d:%02d", secs/60, secs%60))
				})
			}
		}
	}()
	return r
}

// stopped flips the monitor into its post-stop state while the capture tool
// finalizes the file, which can take a while for long recordings.
func (r *recordingWindow) stopped() {
	r.status.SetText("Finalizing the capture...")
	r.stop.Disable()
}
