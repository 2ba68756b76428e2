package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loadtracker/internal/app"
	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/dispatch"
	"loadtracker/internal/domain/push"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const adminCommandTimeout = 30 * time.Second

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, reminder service, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, reminderSvc app.ReminderService, adminTelegramID int64, location *time.Location, baseLogger *logrus.Entry) {
	b.Handle("/notify", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/notify",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if adminTelegramID == 0 || c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		args := c.Args()
		force := len(args) > 0 && strings.EqualFold(args[0], "force")
		handlerLogger = handlerLogger.WithField("force", force)

		runCtx, cancel := context.WithTimeout(ctx, adminCommandTimeout)
		defer cancel()
		res, err := reminderSvc.SendTomorrowReminder(runCtx, time.Now().In(location), app.SendOptions{Force: force})
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if errors.Is(err, push.ErrNotConfigured) {
				logWithError.Warn("Push provider not configured")
				return c.Send("Error: the push provider is not configured.")
			}
			logWithError.Error("Failed to send reminder")
			return c.Send(fmt.Sprintf("Failed to send the reminder: %s", err.Error()))
		}

		handlerLogger.WithField("skipped", res.Skipped).Info("Reminder command handled")
		return c.Send(NotifyReply(res))
	})

	b.Handle("/history", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/history",
			"sender_id": c.Sender().ID,
		})
		if adminTelegramID == 0 || c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		dispatches, err := reminderSvc.History(ctx, 10)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list reminder history")
			return c.Send(fmt.Sprintf("Failed to load the history: %s", err.Error()))
		}
		if len(dispatches) == 0 {
			return c.Send("No reminders have been sent yet.")
		}
		handlerLogger.WithField("dispatch_count", len(dispatches)).Info("Successfully retrieved reminder history")
		return c.Send(HistoryReply(dispatches))
	})
}

// NotifyReply summarises a trigger run for the admin.
func NotifyReply(res *app.SendResult) string {
	target := res.Reminder.Date.Format(cycle.DateLayout)
	if res.Skipped {
		return fmt.Sprintf("The reminder for %s was already sent. Use /notify force to send it again.", target)
	}
	msg := fmt.Sprintf("Sent \"%s\" for %s (ISO week %d).", res.Reminder.Title, target, res.Reminder.ISOWeek)
	if res.Receipt.ID != "" {
		msg += fmt.Sprintf(" Notification ID: %s.", res.Receipt.ID)
	}
	return msg
}

// HistoryReply lists dispatches one per line.
func HistoryReply(dispatches []*dispatch.Dispatch) string {
	var response strings.Builder
	response.WriteString("--- Recent reminders ---\n")
	for _, d := range dispatches {
		response.WriteString(fmt.Sprintf("%s W%d %s: %s", d.TargetDate.Format(cycle.DateLayout), d.ISOWeek, d.Phase.DisplayName(), d.Status))
		if d.ErrorMessage != "" {
			response.WriteString(" (" + d.ErrorMessage + ")")
		}
		response.WriteString("\n")
	}
	return response.String()
}

func reminderNotification(r cycle.Reminder) push.Notification {
	return push.Notification{Title: r.Title, Body: r.Body}
}
