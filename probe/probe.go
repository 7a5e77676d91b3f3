// Package probe reads the duration and native resolution of a recording
// through ffprobe. The capture is unusable without both, so any failure
// here is fatal to the run.
package probe

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/eepp/mononcgif/toolrun"
)

// Info describes the raw capture.
type Info struct {
	DurationMillis int64
	Width          int
	Height         int
}

// File queries path with ffprobe. The duration and geometry queries are
// independent, so they run concurrently; the first failure cancels the other.
func File(ctx context.Context, r toolrun.Runner, ffprobe, path string) (Info, error) {
	var durationOut, geometryOut string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := r.Output(ctx, ffprobe,
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path)
		if err != nil {
			return err
		}
		durationOut = out
		return nil
	})
	g.Go(func() error {
		out, err := r.Output(ctx, ffprobe,
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=width,height",
			"-of", "csv=s=x:p=0",
			path)
		if err != nil {
			return err
		}
		geometryOut = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return Info{}, err
	}

	seconds, err := parseDuration(durationOut)
	if err != nil {
		return Info{}, err
	}
	width, height, err := parseGeometry(geometryOut)
	if err != nil {
		return Info{}, err
	}

	return Info{
		DurationMillis: int64(math.Round(seconds * 1000)),
		Width:          width,
		Height:         height,
	}, nil
}

func parseDuration(out string) (float64, error) {
	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("cannot parse capture duration from %q: %v", strings.TrimSpace(out), err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative capture duration %v", seconds)
	}
	return seconds, nil
}

func parseGeometry(out string) (int, int, error) {
	var width, height int
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("cannot parse capture resolution from %q: %v", strings.TrimSpace(out), err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("degenerate capture resolution %dx%d", width, height)
	}
	return width, height, nil
}
