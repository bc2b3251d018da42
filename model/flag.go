package model

// Flags represents the command line flags.
type Flags struct {
	Pipeline   string
	Event      string
	Repository string
	Branch     string
	RepoPath   string
	ConfigPath string
	Profile    string
	Region     string
	Platforms  []string
	OSes       []string
	LogLevel   string
	Output     string
	DryRun     bool
	Store      bool
	DBPath     string
	Trends     bool
	TrendDays  int
	Compare    bool
	ExportJSON string
	ExportCSV  string
	Version    bool
}
