package flag

import (
	"strings"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/spf13/pflag"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags. The pipeline
// name is the first positional argument.
func (s *service) GetParsedFlags() (model.Flags, error) {
	event := pflag.StringP("event", "e", "", "Trigger event (pull_request, push, or workflow_dispatch)")
	repository := pflag.String("repository", "", "Repository in owner/name form, as reported by the trigger")
	branch := pflag.String("branch", "", "Branch the trigger ran on")
	repoPath := pflag.String("repo-path", ".", "Path to the opensearch-benchmark checkout")
	configPath := pflag.String("config-path", "", "Path to an osb-ci pipeline definition file")
	profile := pflag.StringP("profile", "p", "", "AWS profile to use for release credentials")
	region := pflag.StringP("region", "r", "", "AWS region override for Secrets Manager")
	platforms := pflag.String("platforms", "", "Comma-separated target platforms for the build pipeline")
	oses := pflag.String("oses", "", "Comma-separated operating systems for the test pipeline")
	logLevel := pflag.String("log-level", "info", "Log level (info or debug)")
	output := pflag.StringP("output", "o", "table", "Output format (table or json)")
	dryRun := pflag.Bool("dry-run", false, "Print pipeline commands without executing them")
	store := pflag.Bool("store", false, "Persist run results in local SQLite database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.osb-ci/history.db)")
	trends := pflag.Bool("trends", false, "Show historical trends from stored runs")
	trendDays := pflag.Int("trend-days", 30, "Number of days for trend analysis")
	compare := pflag.Bool("compare", false, "Compare two most recent runs")
	exportJSON := pflag.String("export-json", "", "Export trend output as JSON to file path")
	exportCSV := pflag.String("export-csv", "", "Export trend output as CSV to file path")
	version := pflag.BoolP("version", "v", false, "Show version information")

	pflag.Parse()

	flags := model.Flags{
		Event:      *event,
		Repository: *repository,
		Branch:     *branch,
		RepoPath:   *repoPath,
		ConfigPath: *configPath,
		Profile:    *profile,
		Region:     *region,
		Platforms:  splitList(*platforms),
		OSes:       splitList(*oses),
		LogLevel:   *logLevel,
		Output:     *output,
		DryRun:     *dryRun,
		Store:      *store,
		DBPath:     *dbPath,
		Trends:     *trends,
		TrendDays:  *trendDays,
		Compare:    *compare,
		ExportJSON: *exportJSON,
		ExportCSV:  *exportCSV,
		Version:    *version,
	}

	if args := pflag.Args(); len(args) > 0 {
		flags.Pipeline = args[0]
	}

	return flags, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
