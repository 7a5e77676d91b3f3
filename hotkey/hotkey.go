package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

var (
	mu     sync.Mutex
	active bool
)

// Parse normalizes a combo like "Ctrl+Alt+S" into the lowercase key names
// the keyboard hook expects.
func Parse(combo string) ([]string, error) {
	parts := strings.Split(combo, "+")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		key := strings.ToLower(strings.TrimSpace(part))
		if key == "" {
			continue
		}
		switch key {
		case "control":
			key = "ctrl"
		case "win", "super", "meta":
			key = "cmd"
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("empty hotkey combo %q", combo)
	}
	return keys, nil
}

// Listen installs a global keyboard hook and fires callback whenever the
// combo is pressed, focused window or not. One listener at a time; the
// recording flow starts it when capture begins and stops it when capture
// ends.
func Listen(combo string, callback func()) error {
	keys, err := Parse(combo)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if active {
		return fmt.Errorf("hotkey listener already running")
	}
	active = true

	log.Printf("Listening for hotkey %v", keys)
	gohook.Register(gohook.KeyDown, keys, func(e gohook.Event) {
		log.Printf("Hotkey %v pressed", keys)
		callback()
	})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		events := gohook.Start()
		<-gohook.Process(events)
		log.Printf("Hotkey listener stopped")
	}()

	return nil
}

// Stop tears the global hook down.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if !active {
		return
	}
	active = false
	gohook.End()
}
