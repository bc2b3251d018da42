// Package main is the entry point for the osb-ci application.
package main

import (
	"fmt"
	"os"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/flag"
	"github.com/opensearch-devops/osb-ci/service/orchestrator"
	"github.com/opensearch-devops/osb-ci/service/output"
	"github.com/opensearch-devops/osb-ci/service/storage"
	"github.com/opensearch-devops/osb-ci/shared/banner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history", "dashboard":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Version {
		outputService := output.NewService(flags.Output)
		orchestratorService := orchestrator.NewService(nil, nil, nil, outputService, nil, versionInfo)
		return orchestratorService.Orchestrate(flags)
	}

	if flags.Output != "json" {
		banner.DrawBannerTitle()
	}

	var storageService storage.Service
	if flags.Store || wantsTrendWorkflow(flags) {
		storageService, err = storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
	}

	if wantsTrendWorkflow(flags) {
		return runTrendWorkflow(storageService, trendOptions{
			Pipeline:   flags.Pipeline,
			TrendDays:  flags.TrendDays,
			Compare:    flags.Compare,
			ExportJSON: flags.ExportJSON,
			ExportCSV:  flags.ExportCSV,
		})
	}

	if flags.Pipeline == "" {
		return fmt.Errorf("usage: osb-ci <build|release|test> [flags]")
	}

	return runPipeline(flags, versionInfo, storageService)
}

// wantsTrendWorkflow reports whether the invocation asks for stored-run
// analysis rather than a pipeline run. --compare and the trend exports
// imply --trends.
func wantsTrendWorkflow(flags model.Flags) bool {
	return flags.Trends || flags.Compare || flags.ExportJSON != "" || flags.ExportCSV != ""
}
