package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gadgetbot",
	Short: "GadgetBot - smartphone recommendations grounded in a knowledge graph and live listings",
	Long: `GadgetBot resolves a shopping question into facts: it reads intent from the
message, selects devices from the device knowledge graph, joins them with
live market listings and hands the best facts to a language model.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
