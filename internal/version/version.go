// Package version records the build identity of the sift binary.
package version

import "runtime/debug"

// Release builds override these via -ldflags; development builds keep the
// defaults and fall back to the VCS metadata Go embeds in the binary.
var (
	Number = "0.1.0-dev"
	Commit = ""
	Date   = ""
)

// String returns the version number with the short commit attached when
// one is known, e.g. "0.2.0+4f9c1a2b0d3e".
func String() string {
	c := CommitHash()
	if c == "" {
		return Number
	}
	if len(c) > 12 {
		c = c[:12]
	}
	return Number + "+" + c
}

// CommitHash returns the ldflags commit, falling back to the vcs.revision
// build setting. Empty when neither is available.
func CommitHash() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
