// ABOUTME: Background scheduler that drains the sync queue periodically
package sync

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSchedule is how often the daemon attempts a drain pass.
const DefaultSchedule = "@every 1m"

// retryBudget bounds one scheduled pass so passes never pile up.
const retryBudget = 30 * time.Second

// Daemon runs drain passes on a cron schedule until stopped.
type Daemon struct {
	cron    *cron.Cron
	drainer *Drainer
	log     zerolog.Logger
}

// NewDaemon schedules periodic drains. schedule accepts cron expressions
// and @every durations; empty means DefaultSchedule.
func NewDaemon(drainer *Drainer, schedule string, log zerolog.Logger) (*Daemon, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	d := &Daemon{
		cron:    cron.New(),
		drainer: drainer,
		log:     log,
	}
	_, err := d.cron.AddFunc(schedule, d.pass)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Daemon) pass() {
	ctx, cancel := context.WithTimeout(context.Background(), retryBudget)
	defer cancel()

	applied, err := d.drainer.DrainWithRetry(ctx, retryBudget)
	if err != nil {
		d.log.Warn().Err(err).Int("applied", applied).Msg("scheduled sync pass incomplete")
		return
	}
	if applied > 0 {
		d.log.Info().Int("applied", applied).Msg("scheduled sync pass complete")
	}
}

// Start begins the schedule. It returns immediately.
func (d *Daemon) Start() {
	d.cron.Start()
	d.log.Info().Msg("sync daemon started")
}

// Stop halts the schedule and waits for a running pass to finish.
func (d *Daemon) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.log.Info().Msg("sync daemon stopped")
}
