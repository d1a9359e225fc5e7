// Package version holds build-time identification, injected via
// -ldflags "-X github.com/guimove/eas-sim/pkg/version.Version=...".
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
