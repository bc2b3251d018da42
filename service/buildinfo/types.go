package buildinfo

type service struct {
	repoPath    string
	versionFile string
}

// Service resolves build arguments injected into image builds.
type Service interface {
	// Version reads the version marker file from the repository checkout.
	Version() (string, error)
	// BuildDate returns the invocation timestamp in ISO-8601 UTC.
	BuildDate() string
}
