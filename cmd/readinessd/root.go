package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "readinessd",
		Short:         "Liveness and readiness probe server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")

	cmd.AddCommand(newServeCommand(), newVersionCommand())
	return cmd
}
