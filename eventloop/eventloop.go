package eventloop

import (
	"context"
	"errors"
	"image"
	"log"

	"github.com/eepp/mononcgif/clipboard"
	"github.com/eepp/mononcgif/config"
	"github.com/eepp/mononcgif/display"
	"github.com/eepp/mononcgif/export"
	"github.com/eepp/mononcgif/hotkey"
	"github.com/eepp/mononcgif/pipeline"
	"github.com/eepp/mononcgif/player"
	"github.com/eepp/mononcgif/probe"
	"github.com/eepp/mononcgif/region"
	"github.com/eepp/mononcgif/toolrun"
	"github.com/eepp/mononcgif/worker"
)

// ErrCancelled is the terminal error for a user-initiated abort: Escape in
// the region selector, or closing the screen picker.
var ErrCancelled = errors.New("cancelled by user")

// Message is one event posted into the coordinator: a UI callback firing or
// a background task finishing.
type Message interface{ isMessage() }

// ScreenChosen reports the screen picked in the picker window.
type ScreenChosen struct{ Geo display.Geometry }

// PickerClosed reports that the picker window was closed without a choice.
type PickerClosed struct{}

// SelectionDone reports the confirmed capture region in screen pixels.
type SelectionDone struct{ Sel region.Region }

// SelectionCancelled reports Escape (or a window close) in the selector.
type SelectionCancelled struct{}

// StopRequested asks the running capture to stop. Posted by the Stop
// button, the recording window close and the global hotkey; ignored when no
// capture is running.
type StopRequested struct{}

// CreateRequested carries the configurator state at the moment of a Create
// click. The numeric fields arrive as raw text so that validation happens
// here, before any tool runs.
type CreateRequested struct {
	WidthText     string
	FrameRateText string
	ColorsText    string
	StartSeconds  float64
	EndSeconds    float64
}

// SeekRequested follows a trim slider move.
type SeekRequested struct{ Seconds float64 }

// ConfiguratorClosed reports the normal end of the session.
type ConfiguratorClosed struct{}

type captureStarted struct{ proc toolrun.Proc }
type captureDone struct{ err error }
type probeDone struct {
	info probe.Info
	err  error
}
type exportDone struct {
	res pipeline.Result
	err error
}

func (ScreenChosen) isMessage()       {}
func (PickerClosed) isMessage()       {}
func (SelectionDone) isMessage()      {}
func (SelectionCancelled) isMessage() {}
func (StopRequested) isMessage()      {}
func (CreateRequested) isMessage()    {}
func (SeekRequested) isMessage()      {}
func (ConfiguratorClosed) isMessage() {}
func (captureStarted) isMessage()     {}
func (captureDone) isMessage()        {}
func (probeDone) isMessage()          {}
func (exportDone) isMessage()         {}

// UI is the window surface the coordinator drives. Every method is called
// from the coordinator goroutine; implementations hop to the UI thread
// themselves.
type UI interface {
	ShowPicker(geos []display.Geometry)
	ShowSelector(geo display.Geometry, shot image.Image)
	ShowRecording(stopHint string)
	RecordingStopped()
	ShowConfigurator(info probe.Info)
	ShowCreateError(err error)
	ShowCreateBusy()
	ShowExportResult(res pipeline.Result)
	Quit()
}

// Loop is the single-goroutine coordinator. It owns the typed results of
// each stage (chosen screen, capture process, probe info, preview player)
// and advances the flow one message at a time; blocking tool runs go to the
// worker pool and report back as messages.
type Loop struct {
	cfg    *config.Config
	ui     UI
	runner toolrun.Runner
	geos   []display.Geometry
	dest   string

	pool     *worker.Pool
	events   chan Message
	paths    pipeline.Artifacts
	recorder *pipeline.Recorder
	exporter *pipeline.Exporter
	snapshot func(display.Geometry) (*image.RGBA, error)

	geo      display.Geometry
	proc     toolrun.Proc
	stopped  bool
	preview  *player.Preview
	busy     bool
	hotkeyOn bool
}

// New creates a coordinator for one recording session ending in dest.
func New(cfg *config.Config, ui UI, runner toolrun.Runner, geos []display.Geometry, dest string) *Loop {
	paths := pipeline.ArtifactsIn(cfg.TempDir)
	return &Loop{
		cfg:    cfg,
		ui:     ui,
		runner: runner,
		geos:   geos,
		dest:   dest,
		pool:   worker.New(1),
		events: make(chan Message, 16),
		paths:  paths,
		recorder: &pipeline.Recorder{
			Runner: runner,
			Tool:   cfg.RecorderPath,
			Paths:  paths,
		},
		exporter: &pipeline.Exporter{
			Runner:   runner,
			FFmpeg:   cfg.FFmpegPath,
			Gifsicle: cfg.GifsiclePath,
			Paths:    paths,
		},
		snapshot: display.Snapshot,
	}
}

// Post delivers a message to the coordinator.
func (l *Loop) Post(m Message) { l.events <- m }

// StartHotkey registers the global stop hotkey. Repeat presses while a post
// is already pending are dropped.
func (l *Loop) StartHotkey(combo string) {
	if combo == "" {
		return
	}
	err := hotkey.Listen(combo, func() {
		select {
		case l.events <- StopRequested{}:
		default:
		}
	})
	if err != nil {
		log.Printf("Stop hotkey disabled: %v", err)
		return
	}
	l.hotkeyOn = true
}

// Run processes messages until a terminal condition, then quits the UI and
// returns that condition: nil for a normal close, ErrCancelled for a user
// abort, the tool's *toolrun.ExitError for a failed stage.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	err := l.run(ctx)
	l.teardown()
	l.ui.Quit()
	return err
}

func (l *Loop) run(ctx context.Context) error {
	// A single screen skips the picker entirely.
	if len(l.geos) == 1 {
		l.geo = l.geos[0]
		if err := l.openSelector(); err != nil {
			return err
		}
	} else {
		l.ui.ShowPicker(l.geos)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-l.events:
			done, err := l.handle(ctx, m)
			if done || err != nil {
				return err
			}
		}
	}
}

func (l *Loop) handle(ctx context.Context, m Message) (bool, error) {
	switch m := m.(type) {
	case ScreenChosen:
		l.geo = m.Geo
		return false, l.openSelector()
	case PickerClosed:
		return true, ErrCancelled
	case SelectionDone:
		return false, l.startCapture(ctx, m.Sel)
	case SelectionCancelled:
		return true, ErrCancelled
	case captureStarted:
		l.proc = m.proc
		l.ui.ShowRecording(l.cfg.StopHotkey)
	case StopRequested:
		l.stopCapture()
	case captureDone:
		l.proc = nil
		if m.err != nil {
			return true, m.err
		}
		return false, l.startProbe(ctx)
	case probeDone:
		if m.err != nil {
			return true, m.err
		}
		l.startPreview(ctx)
		l.ui.ShowConfigurator(m.info)
	case SeekRequested:
		if l.preview != nil {
			if err := l.preview.Seek(m.Seconds); err != nil {
				log.Printf("Preview seek failed: %v", err)
			}
		}
	case CreateRequested:
		l.startExport(ctx, m)
	case exportDone:
		l.busy = false
		if m.err != nil {
			return true, m.err
		}
		log.Printf("Exported %s (%s)", m.res.Path, m.res.SizeLabel())
		if l.cfg.CopyPathToClipboard {
			clipboard.WritePath(m.res.Path)
		}
		l.ui.ShowExportResult(m.res)
	case ConfiguratorClosed:
		return true, nil
	}
	return false, nil
}

func (l *Loop) openSelector() error {
	shot, err := l.snapshot(l.geo)
	if err != nil {
		return err
	}
	l.ui.ShowSelector(l.geo, shot)
	return nil
}

func (l *Loop) startCapture(ctx context.Context, sel region.Region) error {
	x, y, w, h := sel.Rect()
	log.Printf("Recording %dx%d at (%d,%d)", w, h, x, y)
	submitted := l.pool.Submit(ctx, func(ctx context.Context) {
		proc, err := l.recorder.Start(ctx, x, y, w, h)
		if err != nil {
			l.events <- captureDone{err: err}
			return
		}
		l.events <- captureStarted{proc: proc}
		l.events <- captureDone{err: proc.Wait()}
	})
	if !submitted {
		return errors.New("worker pool is saturated before recording")
	}
	return nil
}

func (l *Loop) stopCapture() {
	if l.proc == nil || l.stopped {
		return
	}
	l.stopped = true
	l.ui.RecordingStopped()
	if err := l.proc.Interrupt(); err != nil {
		log.Printf("Failed to interrupt the capture tool: %v", err)
	}
}

func (l *Loop) startProbe(ctx context.Context) error {
	submitted := l.pool.Submit(ctx, func(ctx context.Context) {
		info, err := probe.File(ctx, l.runner, l.cfg.FFprobePath, l.paths.Capture)
		l.events <- probeDone{info: info, err: err}
	})
	if !submitted {
		return errors.New("worker pool is saturated before probing")
	}
	return nil
}

// startPreview launches mpv for the trim preview. Any failure just disables
// the preview; trimming by the numbers still works.
func (l *Loop) startPreview(ctx context.Context) {
	if !l.cfg.Preview {
		return
	}
	pv, err := player.Launch(ctx, l.cfg.MPVPath)
	if err != nil {
		log.Printf("Preview disabled: %v", err)
		return
	}
	if err := pv.Load(l.paths.Capture); err != nil {
		log.Printf("Preview disabled: %v", err)
		if cerr := pv.Close(); cerr != nil {
			log.Printf("Preview teardown: %v", cerr)
		}
		return
	}
	l.preview = pv
}

func (l *Loop) startExport(ctx context.Context, m CreateRequested) {
	if l.busy {
		l.ui.ShowCreateBusy()
		return
	}
	settings, err := export.Parse(m.WidthText, m.FrameRateText, m.ColorsText)
	if err != nil {
		l.ui.ShowCreateError(err)
		return
	}
	job := pipeline.Job{
		StartSeconds: m.StartSeconds,
		SpanSeconds:  m.EndSeconds - m.StartSeconds,
		Settings:     settings,
		Destination:  l.dest,
	}
	l.busy = true
	submitted := l.pool.Submit(ctx, func(ctx context.Context) {
		res, err := l.exporter.Run(ctx, job)
		l.events <- exportDone{res: res, err: err}
	})
	if !submitted {
		l.busy = false
		l.ui.ShowCreateBusy()
	}
}

func (l *Loop) teardown() {
	if l.preview != nil {
		if err := l.preview.Close(); err != nil {
			log.Printf("Preview teardown: %v", err)
		}
		l.preview = nil
	}
	if l.hotkeyOn {
		hotkey.Stop()
		l.hotkeyOn = false
	}
}
