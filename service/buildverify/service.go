// Package buildverify implements the per-platform build verification pipeline.
package buildverify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/buildinfo"
	"github.com/opensearch-devops/osb-ci/service/docker"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/runner"
)

// NewService creates a build verification service.
func NewService(dockerService docker.Service, buildinfoService buildinfo.Service, cfg pipelineconfig.BuildConfig) Service {
	return &service{
		docker:    dockerService,
		buildinfo: buildinfoService,
		cfg:       cfg,
	}
}

// TagForPlatform derives the local image tag from a platform identifier,
// e.g. linux/arm64 becomes osb/osb-linux-arm64.
func TagForPlatform(prefix, platform string) string {
	return prefix + "-" + strings.ReplaceAll(platform, "/", "-")
}

func (s *service) Run(ctx context.Context, platforms []string) ([]model.JobResult, error) {
	if len(platforms) == 0 {
		platforms = s.cfg.Platforms
	}

	version, err := s.buildinfo.Version()
	if err != nil {
		return nil, err
	}
	buildDate := s.buildinfo.BuildDate()

	jobs := make([]model.JobResult, len(platforms))
	g := new(errgroup.Group)
	for i, platform := range platforms {
		i, platform := i, platform
		// Each matrix entry is independent: a failure is captured in
		// its job result and never cancels the sibling build.
		g.Go(func() error {
			jobs[i] = s.runPlatform(ctx, platform, version, buildDate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *service) runPlatform(ctx context.Context, platform, version, buildDate string) model.JobResult {
	job := model.JobResult{MatrixKey: platform, Status: model.StatusPassed}

	steps := []struct {
		name string
		fn   func(context.Context) (runner.Result, error)
	}{
		{"setup-qemu", s.docker.SetupEmulation},
		{"setup-buildx", s.docker.EnsureBuilder},
		{"build", func(ctx context.Context) (runner.Result, error) {
			return s.docker.Build(ctx, docker.BuildInput{
				ContextDir: s.cfg.ContextDir,
				Dockerfile: s.cfg.Dockerfile,
				Platforms:  []string{platform},
				Tags:       []string{TagForPlatform(s.cfg.TagPrefix, platform)},
				BuildArgs: map[string]string{
					"VERSION":    version,
					"BUILD_DATE": buildDate,
				},
				Load: true,
			})
		}},
	}

	for _, step := range steps {
		if job.Status == model.StatusFailed {
			job.Steps = append(job.Steps, model.StepResult{Name: step.name, Status: model.StatusSkipped})
			continue
		}
		start := time.Now()
		res, err := step.fn(ctx)
		sr := model.StepResult{
			Name:     step.name,
			Status:   model.StatusPassed,
			ExitCode: res.ExitCode,
			Duration: time.Since(start),
		}
		if err != nil {
			sr.Status = model.StatusFailed
			sr.Error = fmt.Sprintf("%s failed for %s: %v", step.name, platform, err)
			job.Status = model.StatusFailed
		}
		job.Steps = append(job.Steps, sr)
	}
	return job
}
