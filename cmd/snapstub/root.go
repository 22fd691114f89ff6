package main

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "snapstub",
	Short: "Record proxied HTTP traffic into replayable stub mappings",
	Long: `snapstub runs a forward HTTP proxy that captures live traffic.
While proxying, a recording session can be started and stopped through the
admin API; on stop, the captured exchanges for the session's target are
converted into stub mappings (request-match pattern + canned response).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version + " (" + Commit + ")"
}
