package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loadtracker/internal/app"
	"loadtracker/internal/domain/dispatch"
	"loadtracker/internal/domain/push"
	"loadtracker/internal/infra/config"
	idb "loadtracker/internal/infra/database"
	"loadtracker/internal/infra/logger"
	"loadtracker/internal/infra/onesignal"
	"loadtracker/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// runtime holds the wired services shared by serve and the one-shot commands.
type runtime struct {
	cfg         *config.AppConfig
	log         *logrus.Logger
	db          *idb.DB
	bot         *telebot.Bot
	reminders   *app.ReminderServiceImpl
	subscribers *app.SubscriberService
}

type runtimeOptions struct {
	withBot bool // Needed by serve and by notify when mirroring to Telegram
}

func buildRuntime(ctx context.Context, cfg *config.AppConfig, opts runtimeOptions) (*runtime, error) {
	log := logger.New(cfg)
	mainLogger := logger.Component(log, "main")
	rt := &runtime{cfg: cfg, log: log}

	dialect, err := idb.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	db, err := idb.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	rt.db = db
	mainLogger.WithField("driver", dialect).Info("Database connection established successfully.")

	oneSignal := onesignal.NewClient(onesignal.Config{
		AppID:      cfg.OneSignalAppID,
		RESTAPIKey: cfg.OneSignalRESTAPIKey,
		BaseURL:    cfg.OneSignalAPIURL,
		AuthScheme: cfg.OneSignalAuthScheme,
		Timeout:    cfg.OneSignalTimeout,
	}, nil)

	var (
		primary push.Pusher
		tags    push.TagUpdater
		mirrors []push.Pusher
	)
	if oneSignal.Configured() {
		primary = oneSignal
		tags = oneSignal
	} else {
		mainLogger.Warn("OneSignal credentials missing; push reminders are disabled.")
	}

	if opts.withBot && cfg.TelegramEnabled() {
		botLogger := logger.Component(log, "telebot")
		bot, err := telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := botLogger.WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID, "text": c.Text()})
				}
				entry.Error("Telegram handler error")
			},
		})
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("could not create Telegram bot: %w", err)
		}
		rt.bot = bot
		if len(cfg.TelegramChatIDs) > 0 {
			mirrors = append(mirrors, telegram.NewPusher(telegram.NewTelebotAdapter(bot), cfg.TelegramChatIDs))
		}
	}

	// Telegram alone can carry the reminder when OneSignal is not set up.
	if primary == nil && len(mirrors) > 0 {
		primary, mirrors = mirrors[0], mirrors[1:]
	}

	var dispatchRepo dispatch.Repository = idb.NewDispatchRepository(db)
	rt.reminders = app.NewReminderService(
		push.Fanout{Primary: primary, Mirrors: mirrors},
		dispatchRepo,
		cfg.PausedTag,
		logger.Component(log, "reminder_service"),
	)
	rt.subscribers = app.NewSubscriberService(tags, cfg.PausedTag)
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.db != nil {
		if err := rt.db.Close(); err != nil && !errors.Is(err, context.Canceled) {
			rt.log.WithError(err).Warn("Error closing database")
		}
	}
}
