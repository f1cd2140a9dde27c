package main

import (
	"github.com/spf13/cobra"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Build and enrich the analyte reference",
}

func init() {
	rootCmd.AddCommand(referenceCmd)
}
