package pipelineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutPath(t *testing.T) {
	svc := NewService()
	cfg, err := svc.Load("")
	require.NoError(t, err)

	assert.Equal(t, "version.txt", cfg.VersionFile)
	assert.Equal(t, "opensearch-project/opensearch-benchmark", cfg.CanonicalRepository)
	assert.Equal(t, []string{"linux/amd64", "linux/arm64"}, cfg.Build.Platforms)
	assert.Equal(t, "tonistiigi/binfmt:qemu-v7.0.0", cfg.Build.QEMUImage)
	assert.Equal(t, "opensearchstaging/opensearch-benchmark", cfg.Release.Image)
	assert.Equal(t, "main-latest", cfg.Release.Tag)
	assert.Equal(t, []string{"ubuntu-latest", "macos-latest"}, cfg.Test.OperatingSystems)
	assert.Equal(t, "build_and_unit_test", cfg.Test.Subcommand)
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipelines.yaml")
	content := `
build:
  platforms: [linux/amd64]
release:
  image: myorg/osb
  tag: nightly
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	svc := NewService()
	cfg, err := svc.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"linux/amd64"}, cfg.Build.Platforms)
	assert.Equal(t, "myorg/osb", cfg.Release.Image)
	assert.Equal(t, "nightly", cfg.Release.Tag)
	// Untouched sections keep their defaults.
	assert.Equal(t, "tonistiigi/binfmt:qemu-v7.0.0", cfg.Build.QEMUImage)
	assert.Equal(t, "opensearch-project/opensearch-benchmark", cfg.CanonicalRepository)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad platform format", "build:\n  platforms: [amd64]\n"},
		{"empty version file", "version_file: ''\n"},
		{"missing release tag", "release:\n  tag: ''\n"},
		{"empty test matrix", "test:\n  operating_systems: []\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pipelines.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := NewService().Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewService().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
