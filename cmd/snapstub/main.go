// snapstub - a recording forward proxy that synthesizes stub mappings
// from live traffic.
package main

import (
	"fmt"
	"os"
)

// Build-time variables set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
