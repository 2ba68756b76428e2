package scheduler

import (
	"context"
	"fmt"
	"time"

	"loadtracker/internal/app" // For ReminderService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reminderJobTimeout = 1 * time.Minute

type ReminderScheduler struct {
	cronEngine    *cron.Cron
	reminderSvc   app.ReminderService
	logger        *logrus.Entry
	location      *time.Location
	cronSpecDaily string
	now           func() time.Time
}

func NewReminderScheduler(
	reminderSvc app.ReminderService,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecDaily string, // e.g., "0 9 * * *" (09:00 daily)
) *ReminderScheduler {
	if location == nil {
		location = time.UTC
	}
	return &ReminderScheduler{
		cronEngine:    cron.New(cron.WithLocation(location)),
		reminderSvc:   reminderSvc,
		logger:        logger,
		location:      location,
		cronSpecDaily: cronSpecDaily,
		now:           time.Now,
	}
}

// Start registers the daily job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecDaily, s.runDailyReminder); err != nil {
		return fmt.Errorf("could not add daily reminder cron job %q: %w", s.cronSpecDaily, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecDaily).Info("Reminder scheduler started.")
	return nil
}

// NextRun reports when the daily job fires next; zero before Start.
func (s *ReminderScheduler) NextRun() time.Time {
	entries := s.cronEngine.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *ReminderScheduler) runDailyReminder() {
	s.logger.Info("Cron job triggered for daily reminder.")
	ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
	defer cancel()

	res, err := s.reminderSvc.SendTomorrowReminder(ctx, s.now().In(s.location), app.SendOptions{})
	if err != nil {
		s.logger.WithError(err).Error("Error during daily reminder")
		return
	}
	if res.Skipped {
		s.logger.Info("Daily reminder skipped, already sent.")
		return
	}
	s.logger.WithField("phase", res.Reminder.Phase).Info("Daily reminder completed.")
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
