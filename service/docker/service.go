// Package docker drives the Docker CLI for multi-platform image builds.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/opensearch-devops/osb-ci/service/runner"
)

// NewService creates a Docker service. qemuImage is the pinned binfmt image
// used for emulation setup; builderName identifies the Buildx builder.
func NewService(run runner.Service, qemuImage, builderName string) Service {
	return &service{
		run:         run,
		qemuImage:   qemuImage,
		builderName: builderName,
	}
}

func (s *service) SetupEmulation(ctx context.Context) (runner.Result, error) {
	return s.run.Run(ctx, runner.Spec{
		Name:    "setup-qemu",
		Command: "docker",
		Args:    []string{"run", "--privileged", "--rm", s.qemuImage, "--install", "all"},
	})
}

func (s *service) EnsureBuilder(ctx context.Context) (runner.Result, error) {
	// --use switches to an existing builder of the same name instead of
	// failing, so repeated runs are safe.
	res, err := s.run.Run(ctx, runner.Spec{
		Name:    "setup-buildx",
		Command: "docker",
		Args:    []string{"buildx", "create", "--name", s.builderName, "--driver", "docker-container", "--use"},
	})
	if err != nil {
		return res, err
	}
	return s.run.Run(ctx, runner.Spec{
		Name:    "bootstrap-buildx",
		Command: "docker",
		Args:    []string{"buildx", "inspect", "--bootstrap", "--builder", s.builderName},
	})
}

func (s *service) Build(ctx context.Context, input BuildInput) (runner.Result, error) {
	if input.Load && input.Push {
		return runner.Result{}, fmt.Errorf("build cannot both load and push")
	}
	if len(input.Platforms) == 0 {
		return runner.Result{}, fmt.Errorf("build requires at least one platform")
	}

	args := []string{"buildx", "build", "--builder", s.builderName,
		"--platform", strings.Join(input.Platforms, ",")}
	if input.Dockerfile != "" {
		args = append(args, "--file", input.Dockerfile)
	}
	for _, key := range sortedKeys(input.BuildArgs) {
		args = append(args, "--build-arg", key+"="+input.BuildArgs[key])
	}
	for _, tag := range input.Tags {
		args = append(args, "--tag", tag)
	}
	if input.Load {
		args = append(args, "--load")
	}
	if input.Push {
		args = append(args, "--push")
	}
	contextDir := input.ContextDir
	if contextDir == "" {
		contextDir = "."
	}
	args = append(args, contextDir)

	return s.run.Run(ctx, runner.Spec{
		Name:    "build",
		Command: "docker",
		Args:    args,
	})
}

func (s *service) Login(ctx context.Context, registry, username, password string) (runner.Result, error) {
	args := []string{"login", "--username", username, "--password-stdin"}
	if registry != "" {
		args = append(args, registry)
	}
	return s.run.Run(ctx, runner.Spec{
		Name:    "registry-login",
		Command: "docker",
		Args:    args,
		Stdin:   password,
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
