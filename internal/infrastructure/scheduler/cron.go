package scheduler

import (
	"context"
	"time"

	"pulse/internal/ports"
)

// DailyScheduler triggers the report job once per interval, skipping
// weekend triggers since the report covers business days only.
type DailyScheduler struct {
	interval  time.Duration
	runAtBoot bool
	location  *time.Location
	stop      chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a ticker-based scheduler. A non-positive interval
// defaults to 24 hours.
func NewDailyScheduler(interval time.Duration, runAtBoot bool, location *time.Location) *DailyScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if location == nil {
		location = time.UTC
	}
	return &DailyScheduler{interval: interval, runAtBoot: runAtBoot, location: location}
}

// Start begins ticking. Weekend ticks are swallowed.
func (s *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		if s.runAtBoot {
			s.fire(job, time.Now())
		}
		for {
			select {
			case t := <-ticker.C:
				s.fire(job, t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

func (s *DailyScheduler) fire(job func(time.Time), t time.Time) {
	local := t.In(s.location)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return
	}
	job(local)
}

// Stop halts the ticker goroutine.
func (s *DailyScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
