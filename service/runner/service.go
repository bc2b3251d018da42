// Package runner executes the external commands pipelines are made of.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/opensearch-devops/osb-ci/shared/masker"
)

// NewService creates a command runner. All process output is routed through
// the secret masker.
func NewService(opts Options) Service {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &service{opts: opts}
}

func (s *service) Run(ctx context.Context, spec Spec) (Result, error) {
	line := CommandLine(spec)

	stdout := masker.NewWriter(s.opts.Stdout)
	stderr := masker.NewWriter(s.opts.Stderr)
	defer func() {
		_ = stdout.Flush()
		_ = stderr.Flush()
	}()

	if s.opts.DryRun {
		fmt.Fprintf(stdout, "[dry-run] %s\n", line)
		return Result{}, nil
	}
	if s.opts.Verbose {
		fmt.Fprintf(stdout, "+ %s\n", line)
	}

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{Duration: time.Since(start)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, fmt.Errorf("%s exited with code %d", spec.Command, res.ExitCode)
		}
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %s: %w", spec.Command, err)
	}
	return res, nil
}

// CommandLine renders a spec as a single shell-style line for echoing.
// Stdin content is intentionally excluded.
func CommandLine(spec Spec) string {
	parts := append([]string{spec.Command}, spec.Args...)
	return strings.Join(parts, " ")
}
