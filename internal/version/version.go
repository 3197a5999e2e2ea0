package version

import (
	"runtime/debug"
	"sync"
)

// Version is the current semantic version of scriptsym
const Version = "0.1.0"

var (
	commit     string
	commitOnce sync.Once
)

// Commit returns the VCS revision the binary was built from, or "unknown"
func Commit() string {
	commitOnce.Do(func() {
		commit = "unknown"
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		modified := false
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				commit = s.Value
				if len(commit) > 12 {
					commit = commit[:12]
				}
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
		if modified && commit != "unknown" {
			commit += "-dirty"
		}
	})
	return commit
}

// FullInfo returns the version with its build commit
func FullInfo() string {
	return Version + " (commit: " + Commit() + ")"
}
