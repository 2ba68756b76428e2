// internal/app/reminder_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/dispatch"
	"loadtracker/internal/domain/push"
	idb "loadtracker/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// reminderNamespace seeds per-date idempotency keys so a repeated trigger for
// the same day is collapsed by the provider.
var reminderNamespace = uuid.MustParse("5b0f3c8e-6d2a-4c71-9a57-2f1d8e6b4c90")

// ReminderService defines the daily reminder workflow.
type ReminderService interface {
	// SendTomorrowReminder computes tomorrow's phase relative to now and pushes
	// it to every subscriber not tagged as paused.
	SendTomorrowReminder(ctx context.Context, now time.Time, opts SendOptions) (*SendResult, error)
	Preview(now time.Time) (cycle.Reminder, error)
	History(ctx context.Context, limit int) ([]*dispatch.Dispatch, error)
}

// SendOptions tune a single trigger run.
type SendOptions struct {
	Force bool // Send even when tomorrow's reminder already went out
}

// SendResult reports what a trigger run did.
type SendResult struct {
	Reminder cycle.Reminder
	Skipped  bool
	Receipt  push.Receipt
	Dispatch *dispatch.Dispatch
}

// ReminderServiceImpl implements ReminderService.
type ReminderServiceImpl struct {
	pusher       push.Pusher
	dispatchRepo dispatch.Repository
	pausedTag    string
	logger       *logrus.Entry
}

func NewReminderService(
	pusher push.Pusher,
	dispatchRepo dispatch.Repository,
	pausedTag string,
	logger *logrus.Entry,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		pusher:       pusher,
		dispatchRepo: dispatchRepo,
		pausedTag:    pausedTag,
		logger:       logger,
	}
}

// Preview returns the reminder the next trigger run would send.
func (s *ReminderServiceImpl) Preview(now time.Time) (cycle.Reminder, error) {
	if now.IsZero() {
		return cycle.Reminder{}, fmt.Errorf("%w: missing trigger time", cycle.ErrInvalidDate)
	}
	return cycle.ForDate(cycle.Tomorrow(now))
}

// SendTomorrowReminder runs the trigger once.
func (s *ReminderServiceImpl) SendTomorrowReminder(ctx context.Context, now time.Time, opts SendOptions) (*SendResult, error) {
	reminder, err := s.Preview(now)
	if err != nil {
		return nil, err
	}
	targetDate := reminder.Date.Format(cycle.DateLayout)
	log := s.logger.WithFields(logrus.Fields{
		"target_date": targetDate,
		"iso_week":    reminder.ISOWeek,
		"phase":       reminder.Phase,
		"force":       opts.Force,
	})
	log.Info("Preparing reminder for tomorrow")

	result := &SendResult{Reminder: reminder}

	// 1. Skip if tomorrow's reminder already went out
	if !opts.Force && s.dispatchRepo != nil {
		existing, err := s.dispatchRepo.GetLatestByTargetDateAndStatus(ctx, reminder.Date, dispatch.StatusSent)
		switch {
		case err == nil:
			log.WithField("dispatch_id", existing.ID).Info("Reminder already sent for target date. Skipping.")
			result.Skipped = true
			result.Dispatch = existing
			return result, nil
		case errors.Is(err, idb.ErrDispatchNotFound):
		default:
			// The log is operator-facing; an unreadable log must not block the reminder.
			log.WithError(err).Warn("Failed to check dispatch log, sending anyway")
		}
	}

	// 2. Hand the message to the provider
	key := uuid.NewSHA1(reminderNamespace, []byte(targetDate)).String()
	if opts.Force {
		key = uuid.NewString()
	}
	notification := push.Notification{
		Title:          reminder.Title,
		Body:           reminder.Body,
		Audience:       push.ExcludeTag(s.pausedTag),
		IdempotencyKey: key,
	}
	receipt, pushErr := s.pusher.Push(ctx, notification)
	result.Receipt = receipt

	// 3. Record the outcome
	record := &dispatch.Dispatch{
		TargetDate: reminder.Date,
		ISOYear:    reminder.ISOYear,
		ISOWeek:    reminder.ISOWeek,
		Phase:      reminder.Phase,
		Title:      reminder.Title,
		Body:       reminder.Body,
		Status:     dispatch.StatusSent,
		ProviderID: receipt.ID,
	}
	switch {
	case pushErr != nil:
		record.Status = dispatch.StatusFailed
		record.ErrorMessage = pushErr.Error()
	case receipt.MirrorErr != nil:
		// Delivered through the primary; a rerun would repeat it in every mirror chat.
		record.ErrorMessage = receipt.MirrorErr.Error()
	}
	if s.dispatchRepo != nil {
		if err := s.dispatchRepo.Create(ctx, record); err != nil {
			log.WithError(err).Error("Failed to record reminder dispatch")
		} else {
			result.Dispatch = record
		}
	}

	if pushErr != nil {
		log.WithError(pushErr).Error("Failed to send reminder")
		return result, fmt.Errorf("push reminder for %s: %w", targetDate, pushErr)
	}

	entry := log.WithFields(logrus.Fields{
		"provider":        receipt.Provider,
		"notification_id": receipt.ID,
		"recipients":      receipt.Recipients,
	})
	if receipt.MirrorErr != nil {
		entry.WithError(receipt.MirrorErr).Warn("Reminder sent, but a mirror failed")
	}
	if receipt.Note != "" {
		entry.WithField("note", receipt.Note).Warn("Reminder accepted without recipients")
	} else {
		entry.Info("Reminder sent")
	}
	return result, nil
}

// History lists the most recent trigger runs.
func (s *ReminderServiceImpl) History(ctx context.Context, limit int) ([]*dispatch.Dispatch, error) {
	if s.dispatchRepo == nil {
		return nil, nil
	}
	dispatches, err := s.dispatchRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder dispatches: %w", err)
	}
	return dispatches, nil
}
