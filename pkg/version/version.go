// Package version holds build metadata for the segviz binary.
package version

import "runtime/debug"

const (
	devVersion = "dev"
	unknown    = "unknown"
)

// Build metadata, set at link time with -ldflags "-X".
var (
	Version = devVersion
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills unset metadata from the module build info, so
// binaries installed with go install report their module version and VCS
// revision.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == devVersion && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata as "VERSION (commit: COMMIT, built: DATE)".
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
