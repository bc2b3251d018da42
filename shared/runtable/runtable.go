// Package runtable renders pipeline run results as console tables.
package runtable

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/opensearch-devops/osb-ci/model"
)

// DrawRunTable renders the run summary followed by a per-step breakdown.
func DrawRunTable(input model.RenderRunInput) {
	run := input.Run

	fmt.Printf("\n%s %s pipeline (%s)\n", statusIcon(run.Status), run.Pipeline, run.Event)
	if run.Repository != "" {
		fmt.Printf("   %s", run.Repository)
		if run.Branch != "" {
			fmt.Printf(" @ %s", run.Branch)
		}
		fmt.Println()
	}
	fmt.Printf("   %d job(s), %d failed, took %s\n",
		len(run.Jobs), run.FailedJobs(), run.Duration.Round(time.Millisecond))

	drawJobTable(run.Jobs)
	drawStepTable(run.Jobs)

	fmt.Printf("\nOverall: %s\n", colorStatus(run.Status))
}

func drawJobTable(jobs []model.JobResult) {
	if len(jobs) == 0 {
		return
	}
	fmt.Println("\n📋 Matrix Jobs")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Matrix Key", "Status", "Steps", "Failed Step"})
	for _, job := range jobs {
		t.AppendRow(table.Row{job.MatrixKey, colorStatus(job.Status), len(job.Steps), firstFailedStep(job)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawStepTable(jobs []model.JobResult) {
	total := 0
	for _, job := range jobs {
		total += len(job.Steps)
	}
	if total == 0 {
		return
	}
	fmt.Println("\n🔧 Steps")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Matrix Key", "Step", "Status", "Exit", "Duration", "Error"})
	for _, job := range jobs {
		for _, step := range job.Steps {
			t.AppendRow(table.Row{
				job.MatrixKey, step.Name, colorStatus(step.Status),
				step.ExitCode, step.Duration.Round(time.Millisecond), truncate(step.Error, 60),
			})
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func firstFailedStep(job model.JobResult) string {
	for _, step := range job.Steps {
		if step.Status == model.StatusFailed {
			return step.Name
		}
	}
	return ""
}

func statusIcon(status string) string {
	switch status {
	case model.StatusPassed:
		return "✅"
	case model.StatusFailed:
		return "❌"
	case model.StatusSkipped:
		return "⏭️"
	}
	return "•"
}

func colorStatus(status string) string {
	switch status {
	case model.StatusPassed:
		return text.FgGreen.Sprint(status)
	case model.StatusFailed:
		return text.FgRed.Sprint(status)
	case model.StatusSkipped:
		return text.FgYellow.Sprint(status)
	}
	return status
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
