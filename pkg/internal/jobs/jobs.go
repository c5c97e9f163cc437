// Package jobs registers the background jobs of the media pipeline.
package jobs

import (
	"context"

	ctxPkg "github.com/ridgeline/mediavault/pkg/context"
	"github.com/ridgeline/mediavault/pkg/internal/service"
	"github.com/ridgeline/mediavault/pkg/internal/storage"
	"github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/scheduler"
)

// Job names.
const (
	JobNightlyScan = "nightly-scan"
)

// nightlyScanCron runs the reconciliation sweep well outside site traffic
// hours. It picks up files dropped on disk out of band and re-registers
// records whose binaries were removed behind the service's back.
const nightlyScanCron = "30 3 * * *"

// RegisterAll adds every recurring job to the scheduler.
func RegisterAll(ctx context.Context, sched *scheduler.Scheduler, manager *storage.Manager) error {
	ctx = ctxPkg.WithStorageManager(ctx, manager)

	return sched.AddCron(ctx, JobNightlyScan, nightlyScanCron, runNightlyScan)
}

func runNightlyScan(ctx context.Context) {
	logger := log.Logger()
	svc := service.NewMediaServiceFromContext(ctx)

	outcome, err := svc.Scan(ctx, service.ScanOptions{})
	if err != nil {
		logger.Error().Err(err).Msg("nightly scan failed")
		return
	}

	logger.Info().
		Int("seen", outcome.TotalSeen).
		Int("created", outcome.CreatedCount).
		Int("existing", outcome.ExistingCount).
		Int("errors", outcome.ErrorCount).
		Msg("nightly scan completed")
}
