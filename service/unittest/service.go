// Package unittest implements the delegated unit-test verification pipeline.
package unittest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/runner"
)

// NewService creates a test verification service operating on the
// repository checkout at repoPath.
func NewService(run runner.Service, cfg pipelineconfig.TestConfig, repoPath string) Service {
	return &service{run: run, cfg: cfg, repoPath: repoPath}
}

func (s *service) Run(ctx context.Context, operatingSystems []string) ([]model.JobResult, error) {
	if len(operatingSystems) == 0 {
		operatingSystems = s.cfg.OperatingSystems
	}

	jobs := make([]model.JobResult, len(operatingSystems))
	g := new(errgroup.Group)
	for i, osName := range operatingSystems {
		i, osName := i, osName
		// Matrix entries are independent: one OS failing never cancels
		// the other.
		g.Go(func() error {
			jobs[i] = s.runOS(ctx, osName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

type step struct {
	name string
	spec runner.Spec
}

func (s *service) stepsFor(osName string) []step {
	// Per-entry pyenv root so concurrent matrix entries never share a
	// clone.
	pyenvRoot := filepath.Join(s.repoPath, ".pyenv-"+sanitize(osName))

	var steps []step
	if strings.HasPrefix(osName, "ubuntu") {
		// The compression dev headers are only missing on the Linux
		// images; macOS ships them.
		steps = append(steps, step{
			name: "install-" + s.cfg.BzipPackage,
			spec: runner.Spec{
				Name:    "install-" + s.cfg.BzipPackage,
				Command: "sudo",
				Args:    []string{"apt-get", "install", "-y", s.cfg.BzipPackage},
			},
		})
	}
	steps = append(steps,
		step{
			name: "clone-pyenv",
			spec: runner.Spec{
				Name:    "clone-pyenv",
				Command: "git",
				Args:    []string{"clone", "--depth", "1", s.cfg.PyenvRepo, pyenvRoot},
			},
		},
		step{
			name: "build-and-unit-test",
			spec: runner.Spec{
				Name:    "build-and-unit-test",
				Dir:     s.repoPath,
				Env:     []string{"PYENV_ROOT=" + pyenvRoot, "OSB_MATRIX_OS=" + osName},
				Command: "bash",
				Args:    []string{s.cfg.Script, s.cfg.Subcommand},
			},
		},
	)
	return steps
}

func (s *service) runOS(ctx context.Context, osName string) model.JobResult {
	job := model.JobResult{MatrixKey: osName, Status: model.StatusPassed}

	for _, st := range s.stepsFor(osName) {
		if job.Status == model.StatusFailed {
			job.Steps = append(job.Steps, model.StepResult{Name: st.name, Status: model.StatusSkipped})
			continue
		}
		start := time.Now()
		res, err := s.run.Run(ctx, st.spec)
		sr := model.StepResult{
			Name:     st.name,
			Command:  runner.CommandLine(st.spec),
			Status:   model.StatusPassed,
			ExitCode: res.ExitCode,
			Duration: time.Since(start),
		}
		if err != nil {
			sr.Status = model.StatusFailed
			sr.Error = fmt.Sprintf("%s failed on %s: %v", st.name, osName, err)
			job.Status = model.StatusFailed
		}
		job.Steps = append(job.Steps, sr)
	}
	return job
}

func sanitize(osName string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, strings.ToLower(osName))
}
