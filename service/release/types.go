package release

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/awsauth"
	"github.com/opensearch-devops/osb-ci/service/buildinfo"
	"github.com/opensearch-devops/osb-ci/service/docker"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/secretvault"
)

// VaultFactory builds a secret vault bound to assumed-role credentials.
type VaultFactory func(aws.Config) secretvault.Service

type service struct {
	docker     docker.Service
	buildinfo  buildinfo.Service
	auth       awsauth.Service
	newVault   VaultFactory
	releaseCfg pipelineconfig.ReleaseConfig
	buildCfg   pipelineconfig.BuildConfig
	canonical  string
	awsProfile string
	dryRun     bool
}

// Input identifies the triggering push.
type Input struct {
	Repository string
	Branch     string
}

// Service runs the release-publish pipeline. The returned bool reports
// whether the run was skipped by the repository identity gate.
type Service interface {
	Run(ctx context.Context, input Input) (model.JobResult, bool, error)
}
