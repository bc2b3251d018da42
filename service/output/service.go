// Package output provides a service for rendering run results to the console.
package output

import (
	"github.com/opensearch-devops/osb-ci/model"
)

// NewService creates a new output service with the specified format
func NewService(format string) Service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		renderer: &realRenderer{},
	}
}

func (s *service) RenderRun(input model.RenderRunInput) error {
	if s.format == FormatJSON {
		return s.renderer.OutputRunJSON(input)
	}
	s.renderer.DrawRunTable(input)
	return nil
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
