package orchestrator

import (
	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/buildverify"
	"github.com/opensearch-devops/osb-ci/service/output"
	"github.com/opensearch-devops/osb-ci/service/release"
	"github.com/opensearch-devops/osb-ci/service/storage"
	"github.com/opensearch-devops/osb-ci/service/unittest"
)

type service struct {
	buildService   buildverify.Service
	releaseService release.Service
	testService    unittest.Service
	outputService  output.Service
	storageService storage.Service
	versionInfo    model.VersionInfo
}

// Service coordinates a full pipeline invocation: trigger validation,
// execution, rendering, and optional persistence.
type Service interface {
	Orchestrate(flags model.Flags) error
}
