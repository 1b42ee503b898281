// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartEventScheduler runs the periodic event housekeeping: confirmed events
// whose end has passed are marked completed.
func (s *EventService) StartEventScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if _, err := s.CompleteEndedEvents(time.Now()); err != nil {
				log.Printf("[Scheduler] Failed to complete ended events: %v", err)
			}
		}),
	)
}
