package storage

import (
	"context"
	"time"

	"github.com/opensearch-devops/osb-ci/model"
)

// Service defines persistence and trend query operations over run history.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetRecentRuns(pipeline string, limit int) ([]RunSummary, error)
	ListSteps(runID int64) ([]StepSnapshot, error)
	GetTrends(pipeline string, days int) ([]TrendPoint, error)
	GetRunComparison(runID1, runID2 int64) (*RunComparison, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveRunInput is the payload saved for a completed pipeline run.
type SaveRunInput struct {
	Run       model.RunResult
	Version   string
	FlagsJSON string
}

// RunSummary provides compact run metadata.
type RunSummary struct {
	RunID        int64
	RunUUID      string
	Pipeline     string
	Event        string
	Repository   string
	Branch       string
	RunTimestamp time.Time
	DurationMS   int64
	Status       string
	JobsTotal    int
	JobsFailed   int
	Version      string
}

// StepSnapshot is a per-step view of a stored run.
type StepSnapshot struct {
	MatrixKey  string
	StepName   string
	Status     string
	ExitCode   int
	DurationMS int64
	Error      string
}

// TrendPoint is a daily aggregate for trend visualizations.
type TrendPoint struct {
	Pipeline      string  `json:"pipeline"`
	Date          string  `json:"date"`
	Runs          int     `json:"runs"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	PassRate      float64 `json:"pass_rate"`
	AvgDurationMS int64   `json:"avg_duration_ms"`
}

// RunComparison holds the step-level diff between two runs.
type RunComparison struct {
	RunID1       int64
	RunID2       int64
	Regressed    []string
	Recovered    []string
	StillFailing int
}
