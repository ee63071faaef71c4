// The cadence command exercises a clock with a synthetic workload so that
// its scheduling behavior can be benchmarked, traced, and monitored.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence CLI tool runs synthetic workloads on a cadence clock.",
	Long: `Cadence CLI tool runs synthetic workloads on a cadence clock. ` +
		`It can benchmark the scheduling core, trace callback firings into ` +
		`an SQLite database, and serve live scheduling state over HTTP.`,
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
