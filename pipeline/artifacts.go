package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

// minScratchBytes is the free-space level below which a warning is logged
// before recording starts. Advisory only: the capture tool reports its own
// write failures.
const minScratchBytes = 500 * 1024 * 1024

// Artifacts is the fixed set of scratch paths the pipeline writes. Each
// stage's output is the next stage's input; every run overwrites all of
// them, and nothing here is ever cleaned up automatically.
type Artifacts struct {
	Dir       string
	Capture   string
	Video     string
	Palette   string
	RawGIF    string
	Optimized string
}

// ArtifactsIn lays the fixed file names out inside dir.
func ArtifactsIn(dir string) Artifacts {
	return Artifacts{
		Dir:       dir,
		Capture:   filepath.Join(dir, "out.ogv"),
		Video:     filepath.Join(dir, "out.mp4"),
		Palette:   filepath.Join(dir, "palette.png"),
		RawGIF:    filepath.Join(dir, "out.gif"),
		Optimized: filepath.Join(dir, "out-opti.gif"),
	}
}

// EnsureDir creates the scratch directory if needed and checks the space
// under it.
func (a Artifacts) EnsureDir() error {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory %s: %w", a.Dir, err)
	}
	checkScratchSpace(a.Dir)
	return nil
}

func checkScratchSpace(dir string) {
	usage, err := disk.Usage(dir)
	if err != nil {
		log.Printf("Cannot check scratch space under %s: %v", dir, err)
		return
	}
	if usage.Free < minScratchBytes {
		log.Printf("Low scratch space under %s: %d MiB free; long recordings may fail", dir, usage.Free/1024/1024)
	}
}
