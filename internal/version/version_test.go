package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, commit string, settings ...debug.BuildSetting) {
	t.Helper()
	origCommit, origRead := Commit, readBuildInfo
	t.Cleanup(func() { Commit, readBuildInfo = origCommit, origRead })

	Commit = commit
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestInfo(t *testing.T) {
	tests := []struct {
		name     string
		commit   string
		settings []debug.BuildSetting
		want     string
	}{
		{"no commit", "unknown", nil, Version},
		{"short commit", "abc", nil, Version},
		{"exactly seven", "1234567", nil, Version},
		{"linked commit", "abc1234567890", nil, Version + " (abc1234)"},
		{"vcs revision", "unknown", []debug.BuildSetting{{Key: "vcs.revision", Value: "fedcba9876"}}, Version + " (fedcba9)"},
		{"linked wins", "0123456789", []debug.BuildSetting{{Key: "vcs.revision", Value: "fedcba9876"}}, Version + " (0123456)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.commit, tt.settings...)
			if got := Info(); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	origVersion, origDate := Version, BuildDate
	t.Cleanup(func() { Version, BuildDate = origVersion, origDate })
	stub(t, "abcdef123456")
	Version, BuildDate = "1.2.3", "2026-01-15"

	want := "plum version 1.2.3\nCommit: abcdef123456\nBuilt: 2026-01-15"
	if got := Full(); got != want {
		t.Errorf("Full() = %q, want %q", got, want)
	}
}

func TestVersionIsSemver(t *testing.T) {
	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("Version %q is not major.minor.patch", Version)
	}
}
