package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"loadtracker/internal/app"
	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/push"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options carries the values the handlers need from configuration.
type Options struct {
	Location       *time.Location
	OneSignalAppID string // Rendered into the client page for the web SDK
	PausedTag      string
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	health      HealthChecker
	reminders   app.ReminderService
	subscribers *app.SubscriberService
	opts        Options
	logger      *logrus.Entry
	now         func() time.Time
}

// NewHandlers creates a new Handlers instance. health may be nil when the
// service runs without a dispatch log.
func NewHandlers(health HealthChecker, reminders app.ReminderService, subscribers *app.SubscriberService, opts Options, logger *logrus.Entry) *Handlers {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Handlers{
		health:      health,
		reminders:   reminders,
		subscribers: subscribers,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
	}
}

// PhaseResponse is the JSON shape of a computed reminder.
type PhaseResponse struct {
	Date        string `json:"date"`
	ISOYear     int    `json:"iso_year"`
	ISOWeek     int    `json:"iso_week"`
	Phase       string `json:"phase"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

func toPhaseResponse(r cycle.Reminder) PhaseResponse {
	return PhaseResponse{
		Date:        r.Date.Format(cycle.DateLayout),
		ISOYear:     r.ISOYear,
		ISOWeek:     r.ISOWeek,
		Phase:       string(r.Phase),
		DisplayName: r.Phase.DisplayName(),
		Title:       r.Title,
		Body:        r.Body,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			h.logger.WithError(err).Warn("health check failed")
			writeError(w, http.StatusServiceUnavailable, codeDatabaseDown, "Database unhealthy")
			return
		}
	}

	writeData(w, map[string]string{
		"status": "healthy",
	})
}

// GetPhase handles GET /api/v1/phase?date=YYYY-MM-DD
func (h *Handlers) GetPhase(w http.ResponseWriter, r *http.Request) {
	day := h.now().In(h.opts.Location)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := cycle.ParseDate(dateStr, h.opts.Location)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "Invalid date format: "+dateStr+". Use YYYY-MM-DD")
			return
		}
		day = parsed
	}

	reminder, err := cycle.ForDate(day)
	if err != nil {
		h.logger.WithError(err).Error("failed to compute phase")
		writeError(w, http.StatusInternalServerError, codeInternal, "Failed to compute phase")
		return
	}
	writeData(w, toPhaseResponse(reminder))
}

// PreviewReminder handles GET /api/v1/reminders/preview
func (h *Handlers) PreviewReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.reminders.Preview(h.now().In(h.opts.Location))
	if err != nil {
		h.logger.WithError(err).Error("failed to preview reminder")
		writeError(w, http.StatusInternalServerError, codeInternal, "Failed to preview reminder")
		return
	}
	writeData(w, toPhaseResponse(reminder))
}

// NotifyResponse is returned by the trigger endpoint on success.
type NotifyResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Skipped    bool             `json:"skipped"`
	TargetDate string           `json:"target_date"`
	Phase      string           `json:"phase"`
	Receipt    *ReceiptResponse `json:"receipt,omitempty"`
}

type ReceiptResponse struct {
	Provider   string `json:"provider"`
	ID         string `json:"id,omitempty"`
	Recipients int    `json:"recipients"`
	Note       string `json:"note,omitempty"`
	MirrorErr  string `json:"mirror_error,omitempty"`
}

// TriggerNotify handles GET|POST /api/cron/notify. Authorization is enforced
// by CronAuth on the route.
func (h *Handlers) TriggerNotify(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := h.reminders.SendTomorrowReminder(r.Context(), h.now().In(h.opts.Location), app.SendOptions{Force: force})
	if err != nil {
		if errors.Is(err, push.ErrNotConfigured) {
			writeCronError(w, http.StatusInternalServerError, "Missing OneSignal credentials", "")
			return
		}
		h.logger.WithError(err).Error("Error in cron job")
		writeCronError(w, http.StatusInternalServerError, "Failed to send notification", err.Error())
		return
	}

	resp := NotifyResponse{
		Success:    true,
		Message:    res.Reminder.Body,
		Skipped:    res.Skipped,
		TargetDate: res.Reminder.Date.Format(cycle.DateLayout),
		Phase:      string(res.Reminder.Phase),
	}
	if !res.Skipped {
		resp.Receipt = &ReceiptResponse{
			Provider:   res.Receipt.Provider,
			ID:         res.Receipt.ID,
			Recipients: res.Receipt.Recipients,
			Note:       res.Receipt.Note,
		}
		if res.Receipt.MirrorErr != nil {
			resp.Receipt.MirrorErr = res.Receipt.MirrorErr.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// PauseSubscriber handles POST /api/v1/subscribers/{externalID}/pause
func (h *Handlers) PauseSubscriber(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

// ResumeSubscriber handles POST /api/v1/subscribers/{externalID}/resume
func (h *Handlers) ResumeSubscriber(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *Handlers) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	externalID := chi.URLParam(r, "externalID")
	log := h.logger.WithFields(logrus.Fields{"external_id": externalID, "paused": paused})

	if h.subscribers == nil {
		writeError(w, http.StatusServiceUnavailable, codeNotConfigured, "Push provider not configured")
		return
	}
	err := h.subscribers.SetPaused(r.Context(), externalID, paused)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrInvalidSubscriber):
		writeError(w, http.StatusBadRequest, codeInvalidSubscriber, err.Error())
		return
	case errors.Is(err, push.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, codeNotConfigured, "Push provider not configured")
		return
	default:
		log.WithError(err).Error("failed to update subscriber")
		writeError(w, http.StatusBadGateway, codeProviderError, "Failed to update subscriber")
		return
	}

	log.Info("Subscriber preference updated")
	writeData(w, map[string]any{
		"external_id": externalID,
		"paused":      paused,
	})
}
