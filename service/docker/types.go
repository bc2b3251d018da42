package docker

import (
	"context"

	"github.com/opensearch-devops/osb-ci/service/runner"
)

// BuildInput describes a single image build invocation.
type BuildInput struct {
	ContextDir string
	Dockerfile string
	Platforms  []string
	Tags       []string
	BuildArgs  map[string]string
	// Load imports the image into the local daemon; Push publishes it.
	// The two are mutually exclusive.
	Load bool
	Push bool
}

type service struct {
	run         runner.Service
	qemuImage   string
	builderName string
}

// Service wraps the Docker CLI operations pipelines rely on.
type Service interface {
	// SetupEmulation installs multi-platform binfmt handlers using the
	// pinned QEMU image.
	SetupEmulation(ctx context.Context) (runner.Result, error)
	// EnsureBuilder creates and bootstraps the Buildx builder.
	EnsureBuilder(ctx context.Context) (runner.Result, error)
	Build(ctx context.Context, input BuildInput) (runner.Result, error)
	// Login authenticates to a registry, passing the password on stdin so
	// it never appears in process arguments or logs.
	Login(ctx context.Context, registry, username, password string) (runner.Result, error)
}
