// Package player drives an external mpv window over its IPC socket. The
// preview is a convenience: failing to launch it disables the feature and
// nothing else.
package player

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	childprocessmanager "github.com/AgustinSRG/go-child-process-manager"
	"github.com/blang/mpv"
	"github.com/hashicorp/go-multierror"
)

const (
	socketWaitTimeout = 5 * time.Second
	socketPollEvery   = 100 * time.Millisecond
)

// Preview is a running mpv instance looping the raw capture while the user
// picks a trim range.
type Preview struct {
	cmd    *exec.Cmd
	client *mpv.Client
	socket string
}

// Launch starts mpv idle with its IPC server enabled and connects to it.
func Launch(ctx context.Context, mpvPath string) (*Preview, error) {
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("mononcgif-mpv-%d.sock", os.Getpid()))
	_ = os.Remove(socket)

	cmd := exec.CommandContext(ctx, mpvPath,
		"--idle",
		"--really-quiet",
		"--title=mononcgif preview",
		"--input-ipc-server="+socket,
	)
	if err := childprocessmanager.ConfigureCommand(cmd); err != nil {
		log.Printf("Cannot configure mpv child process: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting mpv: %w", err)
	}
	if err := childprocessmanager.AddChildProcess(cmd.Process); err != nil {
		log.Printf("Cannot register mpv process: %v", err)
	}

	if err := waitForSocket(ctx, socket); err != nil {
		_ = cmd.Process.Kill()
		return nil, err
	}

	return &Preview{
		cmd:    cmd,
		client: mpv.NewClient(mpv.NewIPCClient(socket)),
		socket: socket,
	}, nil
}

// waitForSocket polls until mpv accepts IPC connections. The IPC client
// aborts the process on a failed dial, so probe with a plain dial first.
func waitForSocket(ctx context.Context, socket string) error {
	deadline := time.After(socketWaitTimeout)
	ticker := time.NewTicker(socketPollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("mpv IPC socket %s never came up", socket)
		case <-ticker.C:
			conn, err := net.Dial("unix", socket)
			if err == nil {
				conn.Close()
				return nil
			}
		}
	}
}

// Load replaces the playing file and loops it forever.
func (p *Preview) Load(path string) error {
	if err := p.client.Loadfile(path, mpv.LoadFileModeReplace); err != nil {
		return fmt.Errorf("mpv loadfile: %w", err)
	}
	if err := p.client.SetProperty("loop-file", "inf"); err != nil {
		return fmt.Errorf("mpv loop-file: %w", err)
	}
	return p.client.SetPause(false)
}

// Seek jumps the preview to an absolute position, in seconds.
func (p *Preview) Seek(seconds float64) error {
	return p.client.SetProperty("time-pos", seconds)
}

// Close kills the player and removes its socket, combining whatever fails.
func (p *Preview) Close() error {
	var result *multierror.Error
	if err := p.cmd.Process.Kill(); err != nil {
		result = multierror.Append(result, err)
	}
	_ = p.cmd.Wait()
	if err := os.Remove(p.socket); err != nil && !os.IsNotExist(err) {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
