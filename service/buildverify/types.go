package buildverify

import (
	"context"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/buildinfo"
	"github.com/opensearch-devops/osb-ci/service/docker"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
)

type service struct {
	docker    docker.Service
	buildinfo buildinfo.Service
	cfg       pipelineconfig.BuildConfig
}

// Service runs the build-verification pipeline: one independent image build
// per target platform, loaded locally and never pushed.
type Service interface {
	Run(ctx context.Context, platforms []string) ([]model.JobResult, error)
}
