package version

// These are set at build time using -ldflags.
var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
)
