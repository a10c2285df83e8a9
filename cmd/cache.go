package cmd

import "github.com/spf13/cobra"

// cacheCmd groups template-cache subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Template cache utilities",
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
