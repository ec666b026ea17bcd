// Package scheduler fires the periodic counter resets. Both timers count
// down from process start rather than aligning to calendar midnight,
// matching the deployment this bot replaced.
package scheduler

import (
	"fmt"

	"github.com/recuentobot/recuento/internal/tracker"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	dailyInterval  = "@every 24h"
	weeklyInterval = "@every 168h"
)

// Scheduler owns the two reset timers. Resets touch the in-memory store
// only; mirrored daily entries stay behind as the historical ledger.
type Scheduler struct {
	cron   *cron.Cron
	store  *tracker.Store
	logger *zap.Logger
}

// New creates the reset scheduler around the tally store.
func New(store *tracker.Store, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		logger: logger.Named("scheduler"),
	}
}

// Start registers the 24-hour daily and 7-day weekly reset jobs and starts
// the timer loop. Each job first fires one full interval after Start.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(dailyInterval, s.store.ResetAllDaily); err != nil {
		return fmt.Errorf("failed to schedule daily reset: %w", err)
	}

	if _, err := s.cron.AddFunc(weeklyInterval, s.store.ResetAllWeekly); err != nil {
		return fmt.Errorf("failed to schedule weekly reset: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Started reset scheduler")

	return nil
}

// Stop halts the timers; a reset already running completes.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Stopped reset scheduler")
}
