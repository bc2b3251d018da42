package flag

import "github.com/opensearch-devops/osb-ci/model"

type service struct{}

// Service is the interface for CLI flag service.
type Service interface {
	GetParsedFlags() (model.Flags, error)
}
