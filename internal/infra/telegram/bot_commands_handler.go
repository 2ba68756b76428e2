// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"loadtracker/internal/app"
	"loadtracker/internal/domain/cycle"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands wires the public commands: /start, /help, /phase, /next.
func RegisterBotCommands(
	b *telebot.Bot,
	reminderSvc app.ReminderService,
	location *time.Location,
	adminTelegramID int64,
	baseLogger *logrus.Entry, // For contextual logging
) {
	commandLogger := baseLogger.WithField("handler_group", "public")

	b.Handle("/start", func(c telebot.Context) error {
		commandLogger.WithFields(logrus.Fields{"command": "/start", "sender_id": c.Sender().ID}).Info("Processing /start command")
		today, err := cycle.ForDate(time.Now().In(location))
		if err != nil {
			return c.Send("Could not work out this week's phase. Please try again later.")
		}
		return c.Send(fmt.Sprintf("Hi %s! This week is a %s week. Use /help to see what I can do.", c.Sender().FirstName, today.Phase.DisplayName()))
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		commandLogger.WithFields(logrus.Fields{"command": "/help", "sender_id": senderID}).Info("Processing /help command")
		return c.Send(HelpText(adminTelegramID != 0 && senderID == adminTelegramID), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/phase", func(c telebot.Context) error {
		logCtx := commandLogger.WithFields(logrus.Fields{"command": "/phase", "sender_id": c.Sender().ID})

		day := time.Now().In(location)
		if args := c.Args(); len(args) > 0 {
			parsed, err := cycle.ParseDate(args[0], location)
			if err != nil {
				logCtx.WithField("arg", args[0]).Warn("Invalid date argument")
				return c.Send("Invalid date. Use: /phase [YYYY-MM-DD]")
			}
			day = parsed
		}

		reminder, err := cycle.ForDate(day)
		if err != nil {
			logCtx.WithError(err).Error("Failed to compute phase")
			return c.Send("Could not work out the phase for that date.")
		}
		return c.Send(PhaseReply(reminder))
	})

	b.Handle("/next", func(c telebot.Context) error {
		logCtx := commandLogger.WithFields(logrus.Fields{"command": "/next", "sender_id": c.Sender().ID})
		reminder, err := reminderSvc.Preview(time.Now().In(location))
		if err != nil {
			logCtx.WithError(err).Error("Failed to preview reminder")
			if errors.Is(err, cycle.ErrInvalidDate) {
				return c.Send("Could not work out tomorrow's date.")
			}
			return c.Send("Something went wrong. Please try again later.")
		}
		return c.Send(FormatNotification(reminderNotification(reminder)), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	})
}

// PhaseReply describes the phase of the week containing r.Date.
func PhaseReply(r cycle.Reminder) string {
	return fmt.Sprintf("%s is in ISO week %d of %d: %s week.",
		r.Date.Format(cycle.DateLayout), r.ISOWeek, r.ISOYear, r.Phase.DisplayName())
}

// HelpText lists the commands available to the sender.
func HelpText(isAdmin bool) string {
	var helpText strings.Builder
	helpText.WriteString("Available commands:\n\n")
	helpText.WriteString("`/phase [YYYY-MM-DD]`\n - Show whether a week is a Load or Deload week. Defaults to today.\n\n")
	helpText.WriteString("`/next`\n - Show the reminder that goes out for tomorrow.\n\n")
	if isAdmin {
		helpText.WriteString("`/notify [force]`\n - Send tomorrow's reminder now. 'force' sends even if it already went out.\n\n")
		helpText.WriteString("`/history`\n - Show the most recent reminder runs.\n\n")
	}
	helpText.WriteString("`/help`\n - Show this message.")
	return helpText.String()
}
