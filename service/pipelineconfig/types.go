package pipelineconfig

// Config is the pipeline definition file. Every field has a default
// matching the upstream opensearch-benchmark automation.
type Config struct {
	VersionFile         string        `yaml:"version_file"`
	CanonicalRepository string        `yaml:"canonical_repository"`
	Build               BuildConfig   `yaml:"build"`
	Release             ReleaseConfig `yaml:"release"`
	Test                TestConfig    `yaml:"test"`
}

// BuildConfig drives the build-verification pipeline.
type BuildConfig struct {
	Platforms  []string `yaml:"platforms"`
	QEMUImage  string   `yaml:"qemu_image"`
	Dockerfile string   `yaml:"dockerfile"`
	ContextDir string   `yaml:"context"`
	TagPrefix  string   `yaml:"tag_prefix"`
}

// ReleaseConfig drives the release-publish pipeline.
type ReleaseConfig struct {
	Image            string `yaml:"image"`
	Tag              string `yaml:"tag"`
	Registry         string `yaml:"registry"`
	Region           string `yaml:"region"`
	RoleARN          string `yaml:"role_arn"`
	RoleSession      string `yaml:"role_session"`
	UsernameSecretID string `yaml:"username_secret_id"`
	PasswordSecretID string `yaml:"password_secret_id"`
}

// TestConfig drives the test-verification pipeline.
type TestConfig struct {
	OperatingSystems []string `yaml:"operating_systems"`
	Script           string   `yaml:"script"`
	Subcommand       string   `yaml:"subcommand"`
	PyenvRepo        string   `yaml:"pyenv_repo"`
	BzipPackage      string   `yaml:"bzip_package"`
}

type service struct{}

// Service loads and validates pipeline definitions.
type Service interface {
	// Load reads a YAML definition from path, layered over defaults.
	// An empty path returns the defaults unchanged.
	Load(path string) (Config, error)
}
