package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "skillbridge %s%s\n", version, buildSuffix())
	},
}

// buildSuffix reports the VCS revision and Go version when the binary
// carries build info.
func buildSuffix() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	rev := ""
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			rev = s.Value[:7]
		}
	}
	if rev == "" {
		return fmt.Sprintf(" (%s)", info.GoVersion)
	}
	return fmt.Sprintf(" (%s, %s)", rev, info.GoVersion)
}
