package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridgeline/mediavault/pkg/app"
	"github.com/ridgeline/mediavault/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.NewApp(configPath)

		errCh := make(chan error, 1)
		go func() {
			errCh <- a.Run()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			return a.Shutdown(ctx)
		}
	},
}

func registerServeCommand() {
	rootCmd.AddCommand(serveCmd)
}
