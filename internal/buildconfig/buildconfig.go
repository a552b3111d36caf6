package buildconfig

import (
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/Harshitk-cp/plotweave/internal/buildconfig.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Version returns the ldflags version, or the module version when the
// binary was built with go install.
func Version() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// Commit returns the ldflags commit, falling back to the VCS revision
// recorded by the Go toolchain.
func Commit() string {
	if commit != "unknown" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return commit
}

func VersionInfo() map[string]string {
	return map[string]string{
		"version":    Version(),
		"commit":     Commit(),
		"build_date": date,
		"go_version": runtime.Version(),
	}
}
