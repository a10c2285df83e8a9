package cmd

import (
	"demo-data/internal/rules"

	"github.com/spf13/cobra"
)

// rulesCmd prints the demo detection rules that pair with the demo events.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the demo detection rules as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := rules.ExportYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
