package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/gduverger/instapack/internal/config"
	"github.com/gduverger/instapack/internal/repositories/history"
	"github.com/gduverger/instapack/pkg/logger"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	HistoryRepo history.Repository
	Logger      logger.Logger
	Config      *config.Config
}

// Janitor owns the daily cleanup of old retrieval history rows.
type Janitor struct {
	HistoryRepo history.Repository
	Logger      logger.Logger
	Config      *config.Config
}

func New(opts Opts) *Janitor {
	return &Janitor{
		HistoryRepo: opts.HistoryRepo,
		Logger:      opts.Logger.WithComponent("Janitor"),
		Config:      opts.Config,
	}
}

// Schedule sets up a daily job that deletes history rows older than the
// configured retention. The scheduler shuts down with the context.
func (j *Janitor) Schedule(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	retention := time.Duration(j.Config.History.RetentionDays) * 24 * time.Hour

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)), // At 3:00 AM
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				j.Logger.Info("Context cancelled, skipping history cleanup")
				return
			}

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			rowsDeleted, err := j.HistoryRepo.CleanupOldRecords(cleanupCtx, retention)
			if err != nil {
				j.Logger.Error("Failed to clean up old history rows", "error", err)
				return
			}

			j.Logger.Info("History cleanup completed", "rows_deleted", rowsDeleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule history cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		j.Logger.Info("Stopping history cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			j.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
