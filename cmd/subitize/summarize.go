package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

var summarizeCmd = &cobra.Command{
	Use:          "summarize <results.csv>",
	Short:        "Print the accuracy and reaction-time summary of a saved results file",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := engine.LoadResults(args[0])
		if err != nil {
			return err
		}
		return engine.Summarize(records).WriteText(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
