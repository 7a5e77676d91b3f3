package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eepp/mononcgif/export"
	"github.com/eepp/mononcgif/toolrun"
)

// Job is one Create click: the trim window, the encoding knobs, and where
// the final artifact goes.
type Job struct {
	StartSeconds float64
	SpanSeconds  float64
	Settings     export.Settings
	Destination  string
}

// Result reports a finished export.
type Result struct {
	Path      string
	SizeBytes int64
}

// SizeLabel renders the artifact size the way the configurator displays it:
// binary megabytes, three decimals.
func (r Result) SizeLabel() string {
	return fmt.Sprintf("%.3f MiB", float64(r.SizeBytes)/(1024*1024))
}

// Exporter turns the raw capture into an optimized GIF at the destination.
// The four stages run strictly in order, each gated on the previous one's
// success; partial scratch artifacts are left behind on failure, but the
// destination is only ever touched by a completed run.
type Exporter struct {
	Runner   toolrun.Runner
	FFmpeg   string
	Gifsicle string
	Paths    Artifacts
}

func (e *Exporter) Run(ctx context.Context, job Job) (Result, error) {
	start := formatSeconds(job.StartSeconds)
	span := formatSeconds(job.SpanSeconds)
	filter := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", job.Settings.FrameRate, job.Settings.Width)

	// Reformat the raw capture into a plain video container, full length.
	if err := e.Runner.Run(ctx, e.FFmpeg,
		"-y",
		"-i", e.Paths.Capture,
		e.Paths.Video,
	); err != nil {
		return Result{}, err
	}

	// Sample the trimmed span into a reduced palette.
	if err := e.Runner.Run(ctx, e.FFmpeg,
		"-y",
		"-ss", start,
		"-t", span,
		"-i", e.Paths.Video,
		"-vf", filter+",palettegen",
		e.Paths.Palette,
	); err != nil {
		return Result{}, err
	}

	// Encode the same span against the palette.
	if err := e.Runner.Run(ctx, e.FFmpeg,
		"-y",
		"-ss", start,
		"-t", span,
		"-i", e.Paths.Video,
		"-i", e.Paths.Palette,
		"-filter_complex", filter+"[x];[x][1:v]paletteuse",
		e.Paths.RawGIF,
	); err != nil {
		return Result{}, err
	}

	// Squeeze the result and clamp the color count.
	if err := e.Runner.Run(ctx, e.Gifsicle,
		"-O3",
		"--colors", strconv.Itoa(job.Settings.Colors),
		e.Paths.RawGIF,
		"-o", e.Paths.Optimized,
	); err != nil {
		return Result{}, err
	}

	size, err := install(e.Paths.Optimized, job.Destination)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: job.Destination, SizeBytes: size}, nil
}

// formatSeconds renders a tool-facing time offset with millisecond
// precision.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// install copies the optimized artifact onto dst atomically: a temp file in
// dst's directory, synced, then renamed over. On any failure dst keeps its
// previous content (or stays absent).
func install(src, dst string) (size int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening artifact: %w", err)
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	size, err = io.Copy(tmp, in)
	if err != nil {
		return 0, fmt.Errorf("copying artifact: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return 0, fmt.Errorf("setting artifact permissions: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return 0, fmt.Errorf("flushing artifact: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing artifact: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("installing artifact: %w", err)
	}
	syncDir(dir)
	return size, nil
}

// syncDir flushes the rename itself. Best effort: not every filesystem
// supports syncing a directory handle.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
