// Package version holds the build version of plum.
package version

import "runtime/debug"

// Release builds set these with
//
//	go build -ldflags "-X plum/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "1.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// revision returns Commit, or the vcs revision stamped by the go tool
// when no commit was linked in.
func revision() string {
	if Commit != "unknown" {
		return Commit
	}
	info, ok := readBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return Commit
}

// Info is the version with the short commit, such as "1.4.0 (3f2a9c1)".
// The result cache keys its entries on it.
func Info() string {
	if rev := revision(); rev != "unknown" && len(rev) > 7 {
		return Version + " (" + rev[:7] + ")"
	}
	return Version
}

// Full is the text of `plum version`.
func Full() string {
	return "plum version " + Version + "\n" +
		"Commit: " + revision() + "\n" +
		"Built: " + BuildDate
}
