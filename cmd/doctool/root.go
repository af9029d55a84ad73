package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "doctool",
	Short:         "Chapter document tooling",
	Long:          `Fill DOCX/XLSX templates, render ledger PDFs and mint development bearer tokens.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
