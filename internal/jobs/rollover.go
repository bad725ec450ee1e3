// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vladimiradmaev/spendeats/internal/logger"
)

const rolloverTimeout = 5 * time.Minute

type rolloverer interface {
	RolloverAll(ctx context.Context) (int, error)
}

// RolloverJob resets stale monthly limits so users who stay silent across a
// month boundary still start the new month clean.
type RolloverJob struct {
	cron     *cron.Cron
	schedule cron.Schedule
	spending rolloverer
	timeout  time.Duration
}

// NewRolloverJob parses spec as a standard five-field cron expression evaluated in loc.
func NewRolloverJob(spending rolloverer, spec string, loc *time.Location) (*RolloverJob, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid rollover schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}

	j := &RolloverJob{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		spending: spending,
		timeout:  rolloverTimeout,
	}
	j.cron.Schedule(schedule, cron.FuncJob(j.Run))
	return j, nil
}

// Run sweeps all users once.
func (j *RolloverJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	reset, err := j.spending.RolloverAll(ctx)
	if err != nil {
		logger.Error("Monthly rollover failed", "error", err, "reset", reset)
		return
	}
	logger.Info("Monthly rollover finished", "reset", reset, "duration", time.Since(start).String())
}

// Next returns the first run after t.
func (j *RolloverJob) Next(t time.Time) time.Time {
	return j.schedule.Next(t)
}

func (j *RolloverJob) Start() {
	j.cron.Start()
}

// Stop halts the scheduler; the returned context is done once a running sweep finishes.
func (j *RolloverJob) Stop() context.Context {
	return j.cron.Stop()
}
