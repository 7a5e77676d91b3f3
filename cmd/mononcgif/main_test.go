package main

import (
	"errors"
	"testing"

	"github.com/eepp/mononcgif/eventloop"
	"github.com/eepp/mononcgif/toolrun"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"tool failure", &toolrun.ExitError{Tool: "gifsicle", Code: 3}, 3},
		{"tool failure with zero code", &toolrun.ExitError{Tool: "ffmpeg"}, 1},
		{"cancellation", eventloop.ErrCancelled, 1},
		{"plain error", errors.New("boom"), 1},
	}
	for _, c := range cases {
		if got := exitCode(c.err); got != c.want {
			t.Errorf("%s: exitCode = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestRootCmdRequiresExactlyOneOutput(t *testing.T) {
	for _, args := range [][]string{{}, {"a.gif", "b.gif"}} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Errorf("args %v: expected an argument error", args)
		}
	}
}

func TestRootCmdMetadata(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Version != version {
		t.Errorf("unexpected version: %q", cmd.Version)
	}
	if !cmd.SilenceUsage || !cmd.SilenceErrors {
		t.Error("usage and error output must stay silenced; main prints the diagnostic")
	}
}
