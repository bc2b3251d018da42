// Package buildinfo resolves the VERSION and BUILD_DATE build arguments.
package buildinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NewService creates a build info service reading versionFile relative to
// the repository checkout at repoPath.
func NewService(repoPath, versionFile string) Service {
	return &service{repoPath: repoPath, versionFile: versionFile}
}

func (s *service) Version() (string, error) {
	path := filepath.Join(s.repoPath, s.versionFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read version file %s: %w", path, err)
	}
	version := strings.TrimSpace(string(content))
	if version == "" {
		return "", fmt.Errorf("version file %s is empty", path)
	}
	return version, nil
}

func (s *service) BuildDate() string {
	return time.Now().UTC().Format(time.RFC3339)
}
