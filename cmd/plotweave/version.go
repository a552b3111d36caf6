package main

import (
	"fmt"

	"github.com/Harshitk-cp/plotweave/internal/buildconfig"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := buildconfig.VersionInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "plotweave %s (commit %s, built %s, %s)\n",
			info["version"], info["commit"], info["build_date"], info["go_version"])
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
