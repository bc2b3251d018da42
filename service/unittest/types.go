package unittest

import (
	"context"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/runner"
)

type service struct {
	run      runner.Service
	cfg      pipelineconfig.TestConfig
	repoPath string
}

// Service runs the test-verification pipeline: per operating system, set up
// the environment and delegate to the external build script.
type Service interface {
	Run(ctx context.Context, operatingSystems []string) ([]model.JobResult, error)
}
