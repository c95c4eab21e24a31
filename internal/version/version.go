// Package version carries the build stamp of the sitebuilder binary.
package version

import "fmt"

// Version is the release tag, stamped at link time:
// go build -ldflags "-X git.home.luguber.info/inful/sitebuilder/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, stamped the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Describe renders the stamp shown by --version.
func Describe() string {
	return fmt.Sprintf("%s (%s, %s)", orUnknown(Version), orUnknown(GitCommit), orUnknown(BuildTime))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
