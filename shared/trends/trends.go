// Package trends renders run-history aggregates as console tables.
package trends

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/opensearch-devops/osb-ci/service/storage"
)

// RenderTrendTable prints an ASCII table of daily pipeline trend data.
func RenderTrendTable(points []storage.TrendPoint) {
	if len(points) == 0 {
		fmt.Println("No trend data available")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Pipeline", "Date", "Runs", "Passed", "Failed", "Pass Rate", "Avg Duration"})
	for _, p := range points {
		t.AppendRow(table.Row{
			p.Pipeline, p.Date, p.Runs, p.Passed, p.Failed,
			fmt.Sprintf("%.1f%%", p.PassRate),
			(time.Duration(p.AvgDurationMS) * time.Millisecond).String(),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderComparisonTable prints the step-level diff between two runs.
func RenderComparisonTable(cmp *storage.RunComparison) {
	if cmp == nil {
		fmt.Println("No comparison data available")
		return
	}
	fmt.Printf("\nRun Comparison (%d -> %d)\n", cmp.RunID1, cmp.RunID2)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Regressed", "Recovered", "Still Failing"})
	t.AppendRow(table.Row{len(cmp.Regressed), len(cmp.Recovered), cmp.StillFailing})
	t.SetStyle(table.StyleRounded)
	t.Render()

	for _, key := range cmp.Regressed {
		fmt.Printf("  regressed: %s\n", key)
	}
	for _, key := range cmp.Recovered {
		fmt.Printf("  recovered: %s\n", key)
	}
}

// RenderHistoryTable prints recent runs from the history database.
func RenderHistoryTable(runs []storage.RunSummary) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Pipeline", "Event", "Status", "Jobs", "Failed", "When", "Duration"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID, r.Pipeline, r.Event, r.Status, r.JobsTotal, r.JobsFailed,
			r.RunTimestamp.Local().Format("2006-01-02 15:04"),
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderStepTable prints stored steps of a single run.
func RenderStepTable(steps []storage.StepSnapshot) {
	if len(steps) == 0 {
		fmt.Println("No steps recorded for this run")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Matrix Key", "Step", "Status", "Exit", "Duration", "Error"})
	for _, s := range steps {
		t.AppendRow(table.Row{
			s.MatrixKey, s.StepName, s.Status, s.ExitCode,
			(time.Duration(s.DurationMS) * time.Millisecond).String(), s.Error,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
