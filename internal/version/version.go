// Package version holds build-time metadata stamped in via -ldflags.
package version

// Version, Commit, and BuildDate are overridden at build time with:
//
//	go build -ldflags "-X github.com/deskauto/deskauto/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
