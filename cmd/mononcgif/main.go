package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2/app"
	childprocessmanager "github.com/AgustinSRG/go-child-process-manager"
	"github.com/spf13/cobra"

	"github.com/eepp/mononcgif/clipboard"
	"github.com/eepp/mononcgif/config"
	"github.com/eepp/mononcgif/display"
	"github.com/eepp/mononcgif/eventloop"
	"github.com/eepp/mononcgif/gui"
	"github.com/eepp/mononcgif/logutil"
	"github.com/eepp/mononcgif/singleinstance"
	"github.com/eepp/mononcgif/toolrun"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a terminal error to the process exit status: a failed tool
// propagates its own exit code, everything else is 1.
func exitCode(err error) int {
	var exitErr *toolrun.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func run() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "mononcgif OUTPUT",
		Short:         "Record a screen region and export an optimized animated GIF",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(args[0])
		},
	}
}

func runApp(output string) error {
	// Register before anything spawns so every tool dies with us.
	if err := childprocessmanager.InitializeChildProcessManager(); err != nil {
		return fmt.Errorf("child process manager: %v", err)
	}
	defer childprocessmanager.DisposeChildProcessManager()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	if err := toolrun.Preflight(cfg.RecorderPath, cfg.FFmpegPath, cfg.FFprobePath, cfg.GifsiclePath); err != nil {
		return err
	}

	release, err := singleinstance.Claim(cfg.LockPort)
	if err != nil {
		return err
	}
	defer release()

	geos, err := display.List()
	if err != nil {
		return err
	}
	log.Printf("Found %d screen(s)", len(geos))

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	}

	// The fyne driver owns the main goroutine; the coordinator gets its own
	// and reports the terminal condition once the driver stops.
	a := app.New()
	var loop *eventloop.Loop
	ui := gui.New(a, func(m eventloop.Message) { loop.Post(m) })
	loop = eventloop.New(cfg, ui, toolrun.NewRunner(), geos, output)
	loop.StartHotkey(cfg.StopHotkey)

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(context.Background()) }()
	a.Run()
	return <-errCh
}
