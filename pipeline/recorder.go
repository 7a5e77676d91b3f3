package pipeline

import (
	"context"
	"strconv"

	"github.com/eepp/mononcgif/toolrun"
)

// Recorder runs the capture tool over an absolute screen rectangle.
type Recorder struct {
	Runner toolrun.Runner
	Tool   string
	Paths  Artifacts
}

// Start begins recording into the raw capture path and returns the running
// process. The capture tool finalizes its output and exits cleanly when
// interrupted; waiting on the returned process picks that up. Degenerate
// rectangles are passed through as-is and fail in the tool, not here.
func (r *Recorder) Start(ctx context.Context, x, y, width, height int) (toolrun.Proc, error) {
	if err := r.Paths.EnsureDir(); err != nil {
		return nil, err
	}
	return r.Runner.Start(ctx, r.Tool,
		"-x", strconv.Itoa(x),
		"-y", strconv.Itoa(y),
		"--width", strconv.Itoa(width),
		"--height", strconv.Itoa(height),
		"--no-cursor",
		"--no-sound",
		"--overwrite",
		"-o", r.Paths.Capture,
	)
}
