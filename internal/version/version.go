// Package version holds build metadata injected with -ldflags, e.g.
// go build -ldflags "-X git.home.luguber.info/inful/docpipe/internal/version.Version=v1.0.0".
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("docpipe %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
