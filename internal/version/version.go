// Package version reports build information for the wafermap binary.
package version

import "fmt"

// Set at build time with -ldflags "-X wafermap/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("wafermap %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
