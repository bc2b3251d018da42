// Package jsonoutput emits machine-readable run reports.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensearch-devops/osb-ci/model"
)

// RunReportJSON is the top-level JSON document for a pipeline run.
type RunReportJSON struct {
	GeneratedAt string          `json:"generated_at"`
	CLIVersion  string          `json:"cli_version"`
	Run         model.RunResult `json:"run"`
}

// OutputRunJSON prints the run result as indented JSON.
func OutputRunJSON(input model.RenderRunInput) error {
	return printJSON(BuildRunReport(input, time.Now().UTC().Format(time.RFC3339)))
}

// BuildRunReport builds the JSON report model for a run.
func BuildRunReport(input model.RenderRunInput, generatedAt string) RunReportJSON {
	return RunReportJSON{
		GeneratedAt: generatedAt,
		CLIVersion:  input.Version.Version,
		Run:         input.Run,
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
