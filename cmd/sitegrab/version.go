package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Populated by goreleaser-style ldflags. When left empty the values
// fall back to the binary's embedded build info.
var (
	version = ""
	commit  = ""
	date    = ""
)

// getVersion resolves the release version, preferring ldflags over the
// module version recorded by the toolchain.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit resolves the short VCS revision.
func getCommit() string {
	if commit != "" {
		return commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// getDate resolves the VCS commit timestamp used as the build date.
func getDate() string {
	if date != "" {
		return date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

// buildSetting reads one key from the binary's embedded build settings.
func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the sitegrab release version along with the commit and build date it was produced from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitegrab version %s\n  commit: %s\n  built:  %s\n",
				getVersion(), getCommit(), getDate())
		},
	}
}
