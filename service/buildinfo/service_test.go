package buildinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestVersionReadsAndTrims(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "version.txt"), []byte("1.15.0\n"), 0o644); err != nil {
		t.Fatalf("failed to write version file: %v", err)
	}

	svc := NewService(dir, "version.txt")
	version, err := svc.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != "1.15.0" {
		t.Fatalf("expected 1.15.0, got %q", version)
	}
}

func TestVersionRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "version.txt"), []byte("  \n"), 0o644); err != nil {
		t.Fatalf("failed to write version file: %v", err)
	}

	svc := NewService(dir, "version.txt")
	if _, err := svc.Version(); err == nil {
		t.Fatal("expected error for empty version file")
	}
}

func TestVersionMissingFile(t *testing.T) {
	svc := NewService(t.TempDir(), "version.txt")
	if _, err := svc.Version(); err == nil {
		t.Fatal("expected error for missing version file")
	}
}

func TestBuildDateIsUTCISO8601(t *testing.T) {
	svc := NewService(".", "version.txt")
	stamp := svc.BuildDate()

	parsed, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		t.Fatalf("build date %q is not RFC3339: %v", stamp, err)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("build date %q is not UTC", stamp)
	}
}
