package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridgeline/mediavault/pkg/configs"
	ctxPkg "github.com/ridgeline/mediavault/pkg/context"
	"github.com/ridgeline/mediavault/pkg/internal/service"
	"github.com/ridgeline/mediavault/pkg/internal/storage"
	"github.com/ridgeline/mediavault/pkg/log"
)

var scanRehost bool

// scanCmd runs the filesystem reconciliation once and prints the outcome.
// Directories default to the configured media.scan_dirs.
var scanCmd = &cobra.Command{
	Use:   "scan [dirs...]",
	Short: "Reconcile on-disk images against the metadata store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return err
		}

		log.Init()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		manager, err := storage.Init(ctx)
		if err != nil {
			return err
		}
		defer manager.Close(ctx)

		svc := service.NewMediaServiceFromContext(ctxPkg.WithStorageManager(ctx, manager))

		outcome, err := svc.Scan(ctx, service.ScanOptions{
			Directories: args,
			Rehost:      scanRehost,
		})
		if err != nil {
			return err
		}

		b, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))

		return nil
	},
}

func registerScanCommand() {
	scanCmd.Flags().BoolVar(&scanRehost, "rehost", false, "upload newly discovered files to the asset host")
	rootCmd.AddCommand(scanCmd)
}
