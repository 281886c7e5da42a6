package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// StagingSweepJob deletes import uploads that were left behind, for example
// when the process stopped between staging a file and removing it.
type StagingSweepJob struct {
	staging Sweeper
	maxAge  time.Duration
	logger  *slog.Logger
}

func NewStagingSweepJob(staging Sweeper, maxAge time.Duration, logger *slog.Logger) *StagingSweepJob {
	if staging == nil || logger == nil {
		panic("StagingSweepJob dependencies cannot be nil")
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &StagingSweepJob{
		staging: staging,
		maxAge:  maxAge,
		logger:  logger.With("job", "StagingSweep"),
	}
}

func (j *StagingSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting staging directory sweep.", slog.Duration("max_age", j.maxAge))

	removed, err := j.staging.Sweep(ctx, j.maxAge)
	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("files_removed", removed),
	)
	if err != nil {
		summaryLog.WarnContext(ctx, "Staging directory sweep finished with errors.", slog.Any("error", err))
		return fmt.Errorf("staging sweep failed: %w", err)
	}

	summaryLog.InfoContext(ctx, "Staging directory sweep finished successfully.")
	return nil
}
