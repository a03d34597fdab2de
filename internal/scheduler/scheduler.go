package scheduler

import (
	"context"
	"log"
	"time"

	"anara.com/bimbelpintar/internal/service"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic background jobs. Currently just live-class
// reminders; the cron spec comes from config.
type Scheduler struct {
	cron             *cron.Cron
	liveClassService service.LiveClassService
	reminderWindow   time.Duration
}

func New(liveClassService service.LiveClassService, reminderWindow time.Duration) *Scheduler {
	if reminderWindow <= 0 {
		reminderWindow = 30 * time.Minute
	}
	return &Scheduler{
		cron:             cron.New(),
		liveClassService: liveClassService,
		reminderWindow:   reminderWindow,
	}
}

func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.liveClassService.SendReminders(ctx, s.reminderWindow); err != nil {
			log.Printf("Live class reminder job failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started, live class reminders on %q", spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
