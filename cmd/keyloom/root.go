package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keyloom",
	Short: "Keyloom generates cryptographic key strings via grammar derivation",
	Long: `Keyloom builds short random key strings through a randomized grammar
derivation, records every rewrite as a replayable step, and scores the result
with Shannon entropy.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
