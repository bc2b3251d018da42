package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensearch-devops/osb-ci/model"
	"github.com/opensearch-devops/osb-ci/service/buildinfo"
	"github.com/opensearch-devops/osb-ci/service/docker"
	"github.com/opensearch-devops/osb-ci/service/pipelineconfig"
	"github.com/opensearch-devops/osb-ci/service/runner"
	"github.com/opensearch-devops/osb-ci/service/secretvault"
)

type fakeAuth struct {
	cfgCalls    int
	assumeCalls int
	assumeErr   error
	roleARN     string
}

func (f *fakeAuth) GetAWSCfg(context.Context, string, string) (aws.Config, error) {
	f.cfgCalls++
	return aws.Config{}, nil
}

func (f *fakeAuth) AssumeReleaseRole(_ context.Context, _ aws.Config, roleARN, _ string) (aws.Config, error) {
	f.assumeCalls++
	f.roleARN = roleARN
	if f.assumeErr != nil {
		return aws.Config{}, f.assumeErr
	}
	return aws.Config{}, nil
}

type fakeVault struct {
	calls   int
	secrets map[string]string
}

func (f *fakeVault) GetSecretString(_ context.Context, id string) (string, error) {
	f.calls++
	value, ok := f.secrets[id]
	if !ok {
		return "", fmt.Errorf("no such secret %s", id)
	}
	return value, nil
}

type fakeDocker struct {
	logins    []string
	passwords []string
	builds    []docker.BuildInput
	loginErr  error
	setupRan  bool
}

func (f *fakeDocker) SetupEmulation(context.Context) (runner.Result, error) {
	f.setupRan = true
	return runner.Result{}, nil
}

func (f *fakeDocker) EnsureBuilder(context.Context) (runner.Result, error) {
	return runner.Result{}, nil
}

func (f *fakeDocker) Build(_ context.Context, input docker.BuildInput) (runner.Result, error) {
	f.builds = append(f.builds, input)
	return runner.Result{}, nil
}

func (f *fakeDocker) Login(_ context.Context, registry, username, password string) (runner.Result, error) {
	f.logins = append(f.logins, registry+"/"+username)
	f.passwords = append(f.passwords, password)
	if f.loginErr != nil {
		return runner.Result{ExitCode: 1}, f.loginErr
	}
	return runner.Result{}, nil
}

func newTestService(t *testing.T, auth *fakeAuth, vault *fakeVault, dockerSvc *fakeDocker, dryRun bool) Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.txt"), []byte("1.15.0\n"), 0o644))

	cfg := pipelineconfig.Default()
	if !dryRun {
		cfg.Release.RoleARN = "arn:aws:iam::123456789012:role/osb-release"
	}
	factory := func(aws.Config) secretvault.Service { return vault }
	return NewService(
		dockerSvc,
		buildinfo.NewService(dir, "version.txt"),
		auth,
		factory,
		cfg.Release,
		cfg.Build,
		cfg.CanonicalRepository,
		"",
		dryRun,
	)
}

func defaultVault() *fakeVault {
	return &fakeVault{secrets: map[string]string{
		"prod/opensearch-benchmark/dockerhub-username": "osbpublisher",
		"prod/opensearch-benchmark/dockerhub-password": "dh-p4ssword",
	}}
}

func TestRunSkipsNonCanonicalRepository(t *testing.T) {
	auth := &fakeAuth{}
	dockerSvc := &fakeDocker{}
	svc := newTestService(t, auth, defaultVault(), dockerSvc, false)

	job, skipped, err := svc.Run(context.Background(), Input{Repository: "somefork/opensearch-benchmark"})
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, model.StatusSkipped, job.Status)
	assert.Zero(t, auth.cfgCalls, "no credentials may be acquired for a fork")
	assert.Empty(t, dockerSvc.logins)
	assert.Empty(t, dockerSvc.builds)
}

func TestRunPublishesCombinedMultiArchImage(t *testing.T) {
	auth := &fakeAuth{}
	dockerSvc := &fakeDocker{}
	svc := newTestService(t, auth, defaultVault(), dockerSvc, false)

	job, skipped, err := svc.Run(context.Background(), Input{Repository: "opensearch-project/opensearch-benchmark", Branch: "main"})
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, model.StatusPassed, job.Status)

	assert.Equal(t, 1, auth.assumeCalls)
	assert.Equal(t, "arn:aws:iam::123456789012:role/osb-release", auth.roleARN)
	assert.Equal(t, []string{"docker.io/osbpublisher"}, dockerSvc.logins)

	require.Len(t, dockerSvc.builds, 1)
	build := dockerSvc.builds[0]
	assert.True(t, build.Push)
	assert.False(t, build.Load)
	assert.Equal(t, []string{"linux/amd64", "linux/arm64"}, build.Platforms)
	assert.Equal(t, []string{"opensearchstaging/opensearch-benchmark:main-latest"}, build.Tags)
	assert.Equal(t, "1.15.0", build.BuildArgs["VERSION"])
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	auth := &fakeAuth{}
	dockerSvc := &fakeDocker{loginErr: fmt.Errorf("unauthorized")}
	svc := newTestService(t, auth, defaultVault(), dockerSvc, false)

	job, skipped, err := svc.Run(context.Background(), Input{Repository: "opensearch-project/opensearch-benchmark"})
	require.Error(t, err)
	assert.False(t, skipped)
	assert.Equal(t, model.StatusFailed, job.Status)
	assert.Empty(t, dockerSvc.builds, "no build may run after a failed login")
	assert.False(t, dockerSvc.setupRan, "emulation setup must not run after a failed login")
}

func TestRunFailsWhenRoleAssumptionDenied(t *testing.T) {
	auth := &fakeAuth{assumeErr: fmt.Errorf("AccessDenied")}
	dockerSvc := &fakeDocker{}
	svc := newTestService(t, auth, defaultVault(), dockerSvc, false)

	_, _, err := svc.Run(context.Background(), Input{Repository: "opensearch-project/opensearch-benchmark"})
	require.Error(t, err)
	assert.Empty(t, dockerSvc.logins)
}

func TestRunDryRunMakesNoCredentialCalls(t *testing.T) {
	auth := &fakeAuth{}
	dockerSvc := &fakeDocker{}
	// Empty vault and no role ARN: a dry run must succeed without either.
	vault := &fakeVault{secrets: map[string]string{}}
	svc := newTestService(t, auth, vault, dockerSvc, true)

	job, skipped, err := svc.Run(context.Background(), Input{Repository: "opensearch-project/opensearch-benchmark"})
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, model.StatusPassed, job.Status)

	assert.Zero(t, auth.cfgCalls, "dry run must not load AWS config")
	assert.Zero(t, auth.assumeCalls, "dry run must not assume the release role")
	assert.Zero(t, vault.calls, "dry run must not fetch secrets")

	assert.Equal(t, []string{"docker.io/<username>"}, dockerSvc.logins)
	require.Len(t, dockerSvc.builds, 1)
	assert.True(t, dockerSvc.builds[0].Push)
}

func TestRunFailsWhenSecretMissing(t *testing.T) {
	auth := &fakeAuth{}
	dockerSvc := &fakeDocker{}
	vault := &fakeVault{secrets: map[string]string{}}
	svc := newTestService(t, auth, vault, dockerSvc, false)

	_, _, err := svc.Run(context.Background(), Input{Repository: "opensearch-project/opensearch-benchmark"})
	require.Error(t, err)
	assert.Empty(t, dockerSvc.logins)
}
