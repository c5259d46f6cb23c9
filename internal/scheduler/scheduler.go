// Package scheduler drives the periodic regeneration loop.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler runs the dashboard generation job on the configured refresh
// interval, with an immediate first run so the kiosk never starts blank.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	job       func()
}

// New creates a Scheduler around the given job.
func New(interval time.Duration, job func()) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		job:       job,
	}
}

// Start schedules the job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 900
	}

	_, err := s.scheduler.Every(seconds).Seconds().StartImmediately().Do(func() {
		log.Println("scheduler: regenerating dashboard")
		s.job()
		log.Println("scheduler: dashboard regeneration complete")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
