// Package version holds build metadata injected at link time.
package version

// Build metadata, overridden via -ldflags at release builds.
var (
	// Version is the semantic version of the fixhound binary.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "<unknown>"
	// Date is the build timestamp.
	Date = "<unknown>"
)
