// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time via ldflags:
//
//	-X github.com/open-cli-collective/ciceromark-cli/internal/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String describes the build, e.g. "cmk version v1.2.3 (commit: abc123, built: 2024-05-01)".
func String() string {
	return fmt.Sprintf("cmk version %s (commit: %s, built: %s)", Version, Commit, Date)
}
