package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mq "github.com/ridgeline/mediavault/pkg/internal/storage/mq"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Event transport related commands",
		Aliases: []string{"events"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list the registered event transports",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered event transports:")
			for _, t := range mq.GetRegisteredMQTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), " - "+string(t))
			}
		},
	}
)

func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd)
}
