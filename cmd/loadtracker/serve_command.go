package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"loadtracker/internal/infra/httpapi"
	"loadtracker/internal/infra/logger"
	"loadtracker/internal/infra/scheduler"
	"loadtracker/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server, daily scheduler and Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := buildRuntime(runCtx, cfg, runtimeOptions{withBot: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			mainLogger := logger.Component(rt.log, "main")
			mainLogger.WithFields(logrus.Fields{
				"environment": cfg.Environment,
				"timezone":    cfg.Location.String(),
				"http_addr":   cfg.HTTPAddr,
			}).Info("LoadTracker starting...")

			var reminderScheduler *scheduler.ReminderScheduler
			if cfg.CronEnabled {
				reminderScheduler = scheduler.NewReminderScheduler(
					rt.reminders,
					logger.Component(rt.log, "scheduler"),
					cfg.Location,
					cfg.CronSpecDaily,
				)
				if err := reminderScheduler.Start(); err != nil {
					return err
				}
				mainLogger.WithField("next_run", reminderScheduler.NextRun()).Info("Daily reminder scheduled.")
			} else {
				mainLogger.Info("In-process scheduler disabled; expecting an external trigger.")
			}

			if rt.bot != nil {
				botLogger := logger.Component(rt.log, "telegram")
				telegram.RegisterBotCommands(rt.bot, rt.reminders, cfg.Location, cfg.AdminTelegramID, botLogger)
				telegram.RegisterAdminHandlers(runCtx, rt.bot, rt.reminders, cfg.AdminTelegramID, cfg.Location, botLogger)
				go rt.bot.Start()
				mainLogger.Info("Telegram bot started.")
			}

			handlers := httpapi.NewHandlers(rt.db, rt.reminders, rt.subscribers, httpapi.Options{
				Location:       cfg.Location,
				OneSignalAppID: cfg.OneSignalAppID,
				PausedTag:      cfg.PausedTag,
			}, logger.Component(rt.log, "http"))
			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           httpapi.NewRouter(handlers, cfg.CronSecret, logger.Component(rt.log, "http")),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening.")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()

			var runErr error
			select {
			case <-runCtx.Done():
			case err := <-serverErr:
				if err != nil {
					mainLogger.WithError(err).Error("HTTP server failed")
					runErr = fmt.Errorf("http server: %w", err)
				}
			}

			mainLogger.Info("Shutting down application...")
			if reminderScheduler != nil {
				reminderScheduler.Stop()
			}
			if rt.bot != nil {
				rt.bot.Stop()
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				mainLogger.WithError(err).Warn("HTTP server shutdown incomplete")
			}
			if runErr != nil {
				return runErr
			}
			mainLogger.Info("Application shut down gracefully.")
			return nil
		},
	}
}
