package feed

import (
	"time"

	"github.com/go-co-op/gocron"

	"hashtag-feed-platform/internal/logger"
)

// Scheduler runs periodic feed jobs (e.g. the store-warming sync) on a
// gocron scheduler.
type Scheduler struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Scheduler{scheduler: s}
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// ScheduleInterval schedules a job to run at regular intervals. Job errors
// are logged, not fatal; the next run still happens.
func (s *Scheduler) ScheduleInterval(tag string, interval time.Duration, job func() error) error {
	_, err := s.scheduler.Every(interval).Tag(tag).Do(func() {
		if err := job(); err != nil {
			logger.Error("Scheduled job failed", "tag", tag, "error", err)
		}
	})
	return err
}
