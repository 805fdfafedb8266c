package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "msdtool",
		Short: "Tools for MSD simfile data",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newKeysCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
