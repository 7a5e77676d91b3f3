package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var (
	mu    sync.Mutex
	ready bool
)

// Init prepares the system clipboard. Failure is acceptable: headless
// sessions have no clipboard, and delivery is a convenience, not a stage.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	if err := clipboard.Init(); err != nil {
		return err
	}
	ready = true
	return nil
}

// WritePath puts the exported file's path on the clipboard.
func WritePath(path string) bool {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		return false
	}
	// Write returns a change channel, not an error.
	clipboard.Write(clipboard.FmtText, []byte(path))
	return true
}
