package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/awsauth"
	"github.com/opensearch-devops/osb-ci/service/buildinfo"
	"github.com/opensearch-devops/osb-ci/service/buildverify"
	"github.com/opensearch-devops/osb-ci/service/docker"
	"github.com/opensearch-devops/osb-ci/service/orchestrator"
	"github.com/opensearch-devops/osb-ci/service/output"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/release"
	"github.com/opensearch-devops/osb-ci/service/runner"
	"github.com/opensearch-devops/osb-ci/service/secretvault"
	"github.com/opensearch-devops/osb-ci/service/storage"
	"github.com/opensearch-devops/osb-ci/service/unittest"
	"github.com/opensearch-devops/osb-ci/shared/spinner"
)

const builderName = "osb-ci-builder"

func runPipeline(flags model.Flags, versionInfo model.VersionInfo, storageService storage.Service) error {
	cfg, err := pipelineconfig.NewService().Load(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load pipeline definition: %w", err)
	}

	// Region and canonical repository may be overridden per invocation.
	if flags.Region != "" {
		cfg.Release.Region = flags.Region
	}

	runService := runner.NewService(runner.Options{
		DryRun:  flags.DryRun,
		Verbose: flags.LogLevel == "debug",
	})
	dockerService := docker.NewService(runService, cfg.Build.QEMUImage, builderName)
	buildinfoService := buildinfo.NewService(flags.RepoPath, cfg.VersionFile)
	outputService := output.NewService(flags.Output)

	buildService := buildverify.NewService(dockerService, buildinfoService, cfg.Build)
	testService := unittest.NewService(runService, cfg.Test, flags.RepoPath)
	releaseService := release.NewService(
		dockerService,
		buildinfoService,
		awsauth.NewService(),
		func(assumed aws.Config) secretvault.Service { return secretvault.NewService(assumed) },
		cfg.Release,
		cfg.Build,
		cfg.CanonicalRepository,
		flags.Profile,
		flags.DryRun,
	)

	if flags.Output != "json" && !flags.DryRun {
		spinner.StartSpinner(flags.Pipeline)
		defer spinner.StopSpinner()
	}

	orchestratorService := orchestrator.NewService(
		buildService,
		releaseService,
		testService,
		outputService,
		storageService,
		versionInfo,
	)

	return orchestratorService.Orchestrate(flags)
}
