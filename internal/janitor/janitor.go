// Package janitor clears expired password-reset tokens on a cron schedule.
// Expired tokens are already unusable — verification checks the stored
// expiry — so this is hygiene, keeping dead token material out of the
// users table.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/almasbek/pinpoint/internal/metrics"
	"github.com/almasbek/pinpoint/internal/repository"
	"github.com/robfig/cron/v3"
)

type Janitor struct {
	users    repository.UserRepository
	schedule cron.Schedule
	logger   *slog.Logger
}

// New parses the cron expression (standard 5-field syntax) and returns a
// janitor that fires on that schedule.
func New(users repository.UserRepository, cronExpr string, logger *slog.Logger) (*Janitor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return &Janitor{
		users:    users,
		schedule: schedule,
		logger:   logger.With("component", "janitor"),
	}, nil
}

func (j *Janitor) Start(ctx context.Context) {
	next := j.schedule.Next(time.Now())
	j.logger.Info("janitor started", "next_run", next)

	for {
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info("janitor shut down")
			return
		case <-timer.C:
			j.sweep(ctx)
			next = j.schedule.Next(time.Now())
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	start := time.Now()

	purged, err := j.users.PurgeExpiredResetTokens(ctx)
	if err != nil {
		j.logger.Error("purge expired reset tokens", "error", err)
		return
	}

	metrics.JanitorCycleDuration.Observe(time.Since(start).Seconds())
	if purged > 0 {
		metrics.ResetTokensPurgedTotal.Add(float64(purged))
		j.logger.Info("purged expired reset tokens", "count", purged)
	}
}
