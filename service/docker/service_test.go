package docker

import (
	"context"
	"strings"
	"testing"

	"github.com/opensearch-devops/osb-ci/service/runner"
)

type fakeRunner struct {
	specs []runner.Spec
	fail  map[string]int
}

func (f *fakeRunner) Run(_ context.Context, spec runner.Spec) (runner.Result, error) {
	f.specs = append(f.specs, spec)
	if code, ok := f.fail[spec.Name]; ok {
		return runner.Result{ExitCode: code}, &exitError{code: code}
	}
	return runner.Result{}, nil
}

type exitError struct{ code int }

func (e *exitError) Error() string { return "exit" }

func commandLines(specs []runner.Spec) []string {
	lines := make([]string, 0, len(specs))
	for _, s := range specs {
		lines = append(lines, runner.CommandLine(s))
	}
	return lines
}

func TestSetupEmulationUsesPinnedImage(t *testing.T) {
	fake := &fakeRunner{}
	svc := NewService(fake, "tonistiigi/binfmt:qemu-v7.0.0", "osb-ci-builder")

	if _, err := svc.SetupEmulation(context.Background()); err != nil {
		t.Fatalf("SetupEmulation failed: %v", err)
	}
	lines := commandLines(fake.specs)
	if len(lines) != 1 || lines[0] != "docker run --privileged --rm tonistiigi/binfmt:qemu-v7.0.0 --install all" {
		t.Fatalf("unexpected commands: %v", lines)
	}
}

func TestBuildOrdersArgumentsDeterministically(t *testing.T) {
	fake := &fakeRunner{}
	svc := NewService(fake, "tonistiigi/binfmt:qemu-v7.0.0", "osb-ci-builder")

	_, err := svc.Build(context.Background(), BuildInput{
		Dockerfile: "docker/Dockerfile",
		Platforms:  []string{"linux/amd64"},
		Tags:       []string{"osb/osb-linux-amd64"},
		BuildArgs:  map[string]string{"VERSION": "1.15.0", "BUILD_DATE": "2026-08-24T00:00:00Z"},
		Load:       true,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "docker buildx build --builder osb-ci-builder --platform linux/amd64 " +
		"--file docker/Dockerfile " +
		"--build-arg BUILD_DATE=2026-08-24T00:00:00Z --build-arg VERSION=1.15.0 " +
		"--tag osb/osb-linux-amd64 --load ."
	if got := runner.CommandLine(fake.specs[0]); got != want {
		t.Fatalf("unexpected build command:\n got %q\nwant %q", got, want)
	}
}

func TestBuildRejectsLoadAndPush(t *testing.T) {
	svc := NewService(&fakeRunner{}, "img", "b")
	if _, err := svc.Build(context.Background(), BuildInput{Platforms: []string{"linux/amd64"}, Load: true, Push: true}); err == nil {
		t.Fatal("expected error for load+push")
	}
}

func TestBuildRequiresPlatforms(t *testing.T) {
	svc := NewService(&fakeRunner{}, "img", "b")
	if _, err := svc.Build(context.Background(), BuildInput{Load: true}); err == nil {
		t.Fatal("expected error for missing platforms")
	}
}

func TestLoginPassesPasswordOnStdinOnly(t *testing.T) {
	fake := &fakeRunner{}
	svc := NewService(fake, "img", "b")

	if _, err := svc.Login(context.Background(), "docker.io", "osbuser", "p@ssw0rd"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	spec := fake.specs[0]
	if spec.Stdin != "p@ssw0rd" {
		t.Fatalf("password not piped via stdin: %+v", spec)
	}
	if strings.Contains(runner.CommandLine(spec), "p@ssw0rd") {
		t.Fatalf("password leaked into command line: %q", runner.CommandLine(spec))
	}
	if !strings.Contains(runner.CommandLine(spec), "--password-stdin") {
		t.Fatalf("expected --password-stdin, got %q", runner.CommandLine(spec))
	}
}

func TestEnsureBuilderBootstraps(t *testing.T) {
	fake := &fakeRunner{}
	svc := NewService(fake, "img", "osb-ci-builder")

	if _, err := svc.EnsureBuilder(context.Background()); err != nil {
		t.Fatalf("EnsureBuilder failed: %v", err)
	}
	lines := commandLines(fake.specs)
	if len(lines) != 2 {
		t.Fatalf("expected create + inspect, got %v", lines)
	}
	if !strings.Contains(lines[1], "inspect --bootstrap") {
		t.Fatalf("expected bootstrap inspect, got %q", lines[1])
	}
}
