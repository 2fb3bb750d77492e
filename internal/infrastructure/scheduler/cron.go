package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"NewscastDigest/internal/ports"
)

// CronScheduler runs the pipeline on a cron expression.
type CronScheduler struct {
	spec string
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler configured via cron expression string.
func NewCronScheduler(spec string) *CronScheduler {
	return &CronScheduler{spec: spec}
}

// Start registers the job and begins the cron loop.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.cron != nil {
		return nil
	}

	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.spec, func() {
		select {
		case <-ctx.Done():
		default:
			job(time.Now())
		}
	}); err != nil {
		c.cron = nil
		return fmt.Errorf("register cron %q: %w", c.spec, err)
	}

	c.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}

	done := c.cron.Stop()
	c.cron = nil

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
