// Package toolrun is the only place external tools are started. Every
// invocation is an argument vector (no shell), keeps a bounded tail of the
// tool's stderr for diagnostics, and maps non-zero exits to a typed error.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	childprocessmanager "github.com/AgustinSRG/go-child-process-manager"
)

// stderrTailLimit bounds how much tool stderr is kept for diagnostics.
const stderrTailLimit = 8 * 1024

// ExitError reports a tool that ran and exited non-zero. Its message matches
// the user-facing diagnostic; the process exit code mirrors Code.
type ExitError struct {
	Tool   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s returned %d", e.Tool, e.Code)
}

// Runner abstracts tool execution so the pipeline and probe can run against
// a fake in tests.
type Runner interface {
	// Run executes a tool to completion, discarding stdout.
	Run(ctx context.Context, tool string, args ...string) error
	// Output executes a tool to completion and returns its stdout.
	Output(ctx context.Context, tool string, args ...string) (string, error)
	// Start launches a tool in the background.
	Start(ctx context.Context, tool string, args ...string) (Proc, error)
}

// Proc is a started background tool.
type Proc interface {
	// Interrupt asks the tool to finish, the way a terminal Ctrl+C would.
	Interrupt() error
	// Wait blocks until the tool exits and maps its exit status.
	Wait() error
}

// ExecRunner runs real subprocesses.
type ExecRunner struct{}

func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) command(ctx context.Context, tool string, args []string) (*exec.Cmd, *limitedWriter) {
	cmd := exec.CommandContext(ctx, tool, args...)
	stderr := &limitedWriter{limit: stderrTailLimit}
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	if err := childprocessmanager.ConfigureCommand(cmd); err != nil {
		log.Printf("Cannot configure child process for %s: %v", tool, err)
	}
	return cmd, stderr
}

// register ties the child to the process manager so it dies with us. Best
// effort: the kernel-level configuration from ConfigureCommand still holds
// when the manager was never initialized (tests).
func register(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := childprocessmanager.AddChildProcess(cmd.Process); err != nil {
		log.Printf("Cannot register child process %d: %v", cmd.Process.Pid, err)
	}
}

func (r *ExecRunner) Run(ctx context.Context, tool string, args ...string) error {
	log.Printf("Running %s %s", tool, strings.Join(args, " "))
	cmd, stderr := r.command(ctx, tool, args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", tool, err)
	}
	register(cmd)
	return mapExit(tool, cmd.Wait(), stderr)
}

func (r *ExecRunner) Output(ctx context.Context, tool string, args ...string) (string, error) {
	log.Printf("Running %s %s", tool, strings.Join(args, " "))
	cmd, stderr := r.command(ctx, tool, args)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting %s: %w", tool, err)
	}
	register(cmd)
	if err := mapExit(tool, cmd.Wait(), stderr); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

func (r *ExecRunner) Start(ctx context.Context, tool string, args ...string) (Proc, error) {
	log.Printf("Starting %s %s", tool, strings.Join(args, " "))
	cmd, stderr := r.command(ctx, tool, args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", tool, err)
	}
	register(cmd)
	return &execProc{tool: tool, cmd: cmd, stderr: stderr}, nil
}

type execProc struct {
	tool   string
	cmd    *exec.Cmd
	stderr *limitedWriter
}

func (p *execProc) Interrupt() error {
	return p.cmd.Process.Signal(os.Interrupt)
}

func (p *execProc) Wait() error {
	return mapExit(p.tool, p.cmd.Wait(), p.stderr)
}

// mapExit turns a Wait error into an ExitError carrying the tool name, exit
// code and stderr tail. Start failures and context kills pass through.
func mapExit(tool string, err error, stderr *limitedWriter) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		tail := stderr.String()
		if tail != "" {
			log.Printf("%s stderr tail: %s", tool, tail)
		}
		return &ExitError{Tool: tool, Code: exitErr.ExitCode(), Stderr: tail}
	}
	return fmt.Errorf("%s: %w", tool, err)
}

// Preflight confirms the given tools can be found, so a missing executable
// fails fast instead of mid-flow.
func Preflight(tools ...string) error {
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("required tool not found: %w", err)
		}
	}
	return nil
}

// limitedWriter keeps the last limit bytes written to it.
type limitedWriter struct {
	buf   []byte
	limit int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.limit {
		w.buf = w.buf[len(w.buf)-w.limit:]
	}
	return len(p), nil
}

func (w *limitedWriter) String() string {
	return strings.TrimSpace(string(w.buf))
}
