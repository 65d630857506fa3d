// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.3.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Name is the program name reported by the viewer and tools.
const Name = "tree-heat"

// String returns "tree-heat v<version>" with the short commit when known.
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return fmt.Sprintf("%s v%s", Name, Version)
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s v%s (%s)", Name, Version, commit)
}
