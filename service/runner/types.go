package runner

import (
	"context"
	"io"
	"time"
)

// Spec describes one external command to execute.
type Spec struct {
	// Name is a short step label used when echoing commands.
	Name string
	// Dir is the working directory; empty means the process working dir.
	Dir string
	// Env entries (KEY=VALUE) appended to the inherited environment.
	Env []string
	// Stdin, when non-empty, is piped to the command's standard input.
	// Stdin content is never echoed.
	Stdin   string
	Command string
	Args    []string
}

// Result holds the observable outcome of a command.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Options configures a runner service.
type Options struct {
	// DryRun prints each command instead of executing it.
	DryRun bool
	// Verbose echoes each command before execution.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

type service struct {
	opts Options
}

// Service executes external commands with masked output.
type Service interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}
