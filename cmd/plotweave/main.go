package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "plotweave",
	Short: "Extract a structured narrative model from prose",
	Long: `plotweave reads free-form prose and reports the characters, locations,
objects, relationships, events, event dependencies and plotlines it finds.

Results are heuristic candidates with confidence scores, meant for review.

Examples:
  plotweave analyze chapter1.txt
  plotweave analyze --threshold 0.7 --json chapter1.txt
  cat chapter1.txt | plotweave analyze -`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
