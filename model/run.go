package model

import "time"

// Pipeline names accepted as the CLI subcommand.
const (
	PipelineBuild   = "build"
	PipelineRelease = "release"
	PipelineTest    = "test"
)

// Trigger events, mirroring the CI trigger surface.
const (
	EventPullRequest      = "pull_request"
	EventPush             = "push"
	EventWorkflowDispatch = "workflow_dispatch"
)

// Run, job, and step statuses.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

// StepResult records a single executed (or skipped) pipeline step.
type StepResult struct {
	Name     string        `json:"name"`
	Command  string        `json:"command,omitempty"`
	Status   string        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// JobResult is one matrix entry of a pipeline run. MatrixKey is the target
// platform for image builds or the operating system for the test suite.
type JobResult struct {
	MatrixKey string       `json:"matrix_key"`
	Status    string       `json:"status"`
	Steps     []StepResult `json:"steps"`
}

// Failed reports whether any step of the job failed.
func (j JobResult) Failed() bool {
	return j.Status == StatusFailed
}

// RunResult is the outcome of one full pipeline invocation.
type RunResult struct {
	RunUUID    string        `json:"run_uuid"`
	Pipeline   string        `json:"pipeline"`
	Event      string        `json:"event"`
	Repository string        `json:"repository"`
	Branch     string        `json:"branch,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Status     string        `json:"status"`
	Jobs       []JobResult   `json:"jobs"`
}

// FailedJobs returns the number of failed matrix entries.
func (r RunResult) FailedJobs() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Failed() {
			n++
		}
	}
	return n
}

// RenderRunInput is the payload handed to the output service.
type RenderRunInput struct {
	Run     RunResult
	Version VersionInfo
}
