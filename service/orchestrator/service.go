// Package orchestrator coordinates the execution of CI pipelines.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/buildverify"
	"github.com/opensearch-devops/osb-ci/service/output"
	"github.com/opensearch-devops/osb-ci/service/release"
	"github.com/opensearch-devops/osb-ci/service/storage"
	"github.com/opensearch-devops/osb-ci/service/unittest"
)

// NewService creates a new orchestrator service.
func NewService(
	buildService buildverify.Service,
	releaseService release.Service,
	testService unittest.Service,
	outputService output.Service,
	storageService storage.Service,
	versionInfo model.VersionInfo,
) Service {
	return &service{
		buildService:   buildService,
		releaseService: releaseService,
		testService:    testService,
		outputService:  outputService,
		storageService: storageService,
		versionInfo:    versionInfo,
	}
}

func (s *service) Orchestrate(flags model.Flags) error {
	if flags.Version {
		return s.versionWorkflow()
	}

	event, err := resolveEvent(flags.Pipeline, flags.Event)
	if err != nil {
		s.outputService.StopSpinner()
		return err
	}

	run := model.RunResult{
		RunUUID:    uuid.NewString(),
		Pipeline:   flags.Pipeline,
		Event:      event,
		Repository: flags.Repository,
		Branch:     flags.Branch,
		StartedAt:  time.Now().UTC(),
	}

	ctx := context.Background()
	var runErr error

	switch flags.Pipeline {
	case model.PipelineBuild:
		run.Jobs, runErr = s.buildService.Run(ctx, flags.Platforms)
	case model.PipelineTest:
		run.Jobs, runErr = s.testService.Run(ctx, flags.OSes)
	case model.PipelineRelease:
		if flags.Repository == "" {
			s.outputService.StopSpinner()
			return fmt.Errorf("the release pipeline requires --repository")
		}
		var job model.JobResult
		var skipped bool
		job, skipped, runErr = s.releaseService.Run(ctx, release.Input{
			Repository: flags.Repository,
			Branch:     flags.Branch,
		})
		run.Jobs = []model.JobResult{job}
		if skipped {
			run.Status = model.StatusSkipped
		}
	default:
		s.outputService.StopSpinner()
		return fmt.Errorf("unsupported pipeline: %q (expected build, release, or test)", flags.Pipeline)
	}

	run.Duration = time.Since(run.StartedAt)
	if run.Status == "" {
		run.Status = overallStatus(run.Jobs)
	}

	s.outputService.StopSpinner()

	if runErr != nil && run.FailedJobs() == 0 {
		// Failure before any job produced results, e.g. an unreadable
		// version file.
		return fmt.Errorf("%s pipeline failed: %w", flags.Pipeline, runErr)
	}

	if err := s.outputService.RenderRun(model.RenderRunInput{Run: run, Version: s.versionInfo}); err != nil {
		return err
	}

	if flags.Store && s.storageService != nil {
		flagsJSON, _ := json.Marshal(flags)
		if _, err := s.storageService.SaveRun(ctx, storage.SaveRunInput{
			Run:       run,
			Version:   s.versionInfo.Version,
			FlagsJSON: string(flagsJSON),
		}); err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}
	}

	if run.Status == model.StatusFailed {
		return fmt.Errorf("%s pipeline failed: %d of %d jobs failed",
			flags.Pipeline, run.FailedJobs(), len(run.Jobs))
	}
	return nil
}

func (s *service) versionWorkflow() error {
	s.outputService.StopSpinner()

	fmt.Printf("osb-ci version %s\n", s.versionInfo.Version)
	fmt.Printf("commit: %s\n", s.versionInfo.Commit)
	fmt.Printf("built at: %s\n", s.versionInfo.Date)

	return nil
}

// resolveEvent validates the trigger event against the pipeline and fills
// in the pipeline's default trigger when none is given.
func resolveEvent(pipeline, event string) (string, error) {
	switch pipeline {
	case model.PipelineBuild, model.PipelineTest:
		switch event {
		case "":
			return model.EventWorkflowDispatch, nil
		case model.EventPullRequest, model.EventWorkflowDispatch:
			return event, nil
		}
	case model.PipelineRelease:
		switch event {
		case "":
			return model.EventPush, nil
		case model.EventPush:
			return event, nil
		}
	default:
		return "", fmt.Errorf("unsupported pipeline: %q (expected build, release, or test)", pipeline)
	}
	return "", fmt.Errorf("event %q does not trigger the %s pipeline", event, pipeline)
}

func overallStatus(jobs []model.JobResult) string {
	status := model.StatusPassed
	skipped := 0
	for _, j := range jobs {
		if j.Failed() {
			return model.StatusFailed
		}
		if j.Status == model.StatusSkipped {
			skipped++
		}
	}
	if len(jobs) > 0 && skipped == len(jobs) {
		return model.StatusSkipped
	}
	return status
}
