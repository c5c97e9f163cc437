// Package cmd contains the mediavault command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "mediavault",
		Short: "Media ingestion and metadata reconciliation service",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "config file or directory")

	registerServeCommand()
	registerScanCommand()
	registerConfigsCommands()
	registerMQCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
