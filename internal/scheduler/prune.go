package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const (
	PruneJobName    = "prune-date-overrides"
	pruneJobTimeout = time.Minute
)

// OverridePruner deletes date overrides older than the retention window.
type OverridePruner interface {
	PruneOverrides(ctx context.Context, retentionDays int) (int64, error)
}

// RegisterPruneJob schedules removal of past date overrides.
func RegisterPruneJob(s *Service, pruner OverridePruner, cronExpr string, retentionDays int) (gocron.Job, error) {
	return s.AddJob(PruneJobName, cronExpr, pruneTask(pruner, retentionDays, s.logger))
}

func pruneTask(pruner OverridePruner, retentionDays int, logger zerolog.Logger) func() {
	jobLogger := logger.With().
		Str("component", "override_prune_job").
		Int("retention_days", retentionDays).
		Logger()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		deleted, err := pruner.PruneOverrides(ctx, retentionDays)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to prune date overrides")
			return
		}
		jobLogger.Info().Int64("deleted", deleted).Msg("Date override prune finished")
	}
}
