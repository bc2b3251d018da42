package output

import (
	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/shared/jsonoutput"
	"github.com/opensearch-devops/osb-ci/shared/runtable"
	"github.com/opensearch-devops/osb-ci/shared/spinner"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing run results
type Renderer interface {
	DrawRunTable(input model.RenderRunInput)
	OutputRunJSON(input model.RenderRunInput) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawRunTable(input model.RenderRunInput) {
	runtable.DrawRunTable(input)
}

func (r *realRenderer) OutputRunJSON(input model.RenderRunInput) error {
	return jsonoutput.OutputRunJSON(input)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format   Format
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	RenderRun(input model.RenderRunInput) error
	StopSpinner()
}
