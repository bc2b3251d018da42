// Package release implements the push-triggered publish pipeline.
package release

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/awsauth"
	"github.com/opensearch-devops/osb-ci/service/buildinfo"
	"github.com/opensearch-devops/osb-ci/service/docker"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/runner"
)

// NewService creates a release service. canonical is the only repository
// the pipeline will publish for; awsProfile selects local AWS credentials.
// With dryRun set, no AWS call is made: credential steps succeed with
// placeholder values so later commands still expand fully.
func NewService(
	dockerService docker.Service,
	buildinfoService buildinfo.Service,
	authService awsauth.Service,
	newVault VaultFactory,
	releaseCfg pipelineconfig.ReleaseConfig,
	buildCfg pipelineconfig.BuildConfig,
	canonical string,
	awsProfile string,
	dryRun bool,
) Service {
	return &service{
		docker:     dockerService,
		buildinfo:  buildinfoService,
		auth:       authService,
		newVault:   newVault,
		releaseCfg: releaseCfg,
		buildCfg:   buildCfg,
		canonical:  canonical,
		awsProfile: awsProfile,
		dryRun:     dryRun,
	}
}

func (s *service) Run(ctx context.Context, input Input) (model.JobResult, bool, error) {
	job := model.JobResult{MatrixKey: "publish", Status: model.StatusPassed}

	// Repository identity gate: only the canonical upstream repository
	// may publish the moving tag.
	if input.Repository != s.canonical {
		job.Status = model.StatusSkipped
		job.Steps = append(job.Steps, model.StepResult{
			Name:   "verify-repository",
			Status: model.StatusSkipped,
			Error:  fmt.Sprintf("repository %q is not %q; publish skipped", input.Repository, s.canonical),
		})
		return job, true, nil
	}
	job.Steps = append(job.Steps, model.StepResult{Name: "verify-repository", Status: model.StatusPassed})

	var (
		assumed  aws.Config
		username string
		password string
	)

	// Sequential: the first failure aborts the publish outright.
	steps := []struct {
		name string
		fn   func(context.Context) (runner.Result, error)
	}{
		{"assume-release-role", func(ctx context.Context) (runner.Result, error) {
			if s.dryRun {
				return runner.Result{}, nil
			}
			base, err := s.auth.GetAWSCfg(ctx, s.releaseCfg.Region, s.awsProfile)
			if err != nil {
				return runner.Result{}, err
			}
			assumed, err = s.auth.AssumeReleaseRole(ctx, base, s.releaseCfg.RoleARN, s.releaseCfg.RoleSession)
			return runner.Result{}, err
		}},
		{"fetch-registry-credentials", func(ctx context.Context) (runner.Result, error) {
			if s.dryRun {
				username, password = "<username>", "<password>"
				return runner.Result{}, nil
			}
			vault := s.newVault(assumed)
			var err error
			if username, err = vault.GetSecretString(ctx, s.releaseCfg.UsernameSecretID); err != nil {
				return runner.Result{}, err
			}
			password, err = vault.GetSecretString(ctx, s.releaseCfg.PasswordSecretID)
			return runner.Result{}, err
		}},
		{"registry-login", func(ctx context.Context) (runner.Result, error) {
			return s.docker.Login(ctx, s.releaseCfg.Registry, username, password)
		}},
		{"setup-qemu", s.docker.SetupEmulation},
		{"setup-buildx", s.docker.EnsureBuilder},
		{"build-and-push", func(ctx context.Context) (runner.Result, error) {
			version, err := s.buildinfo.Version()
			if err != nil {
				return runner.Result{}, err
			}
			return s.docker.Build(ctx, docker.BuildInput{
				ContextDir: s.buildCfg.ContextDir,
				Dockerfile: s.buildCfg.Dockerfile,
				Platforms:  s.buildCfg.Platforms,
				Tags:       []string{s.releaseCfg.Image + ":" + s.releaseCfg.Tag},
				BuildArgs: map[string]string{
					"VERSION":    version,
					"BUILD_DATE": s.buildinfo.BuildDate(),
				},
				Push: true,
			})
		}},
	}

	for _, step := range steps {
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
			sr.Error = err.Error()
			job.Steps = append(job.Steps, sr)
			job.Status = model.StatusFailed
			return job, false, fmt.Errorf("release step %s failed: %w", step.name, err)
		}
		job.Steps = append(job.Steps, sr)
	}

	return job, false, nil
}
