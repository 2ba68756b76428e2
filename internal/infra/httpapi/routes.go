package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter configures all HTTP routes and returns the router.
//
//	GET  /                                          client page
//	GET  /health                                    liveness plus DB ping
//	GET  /api/v1/phase?date=YYYY-MM-DD              phase for a date
//	GET  /api/v1/reminders/preview                  tomorrow's reminder
//	POST /api/v1/subscribers/{externalID}/pause     tag subscriber as paused
//	POST /api/v1/subscribers/{externalID}/resume    clear the pause tag
//	GET|POST /api/cron/notify                       trigger, Bearer CRON_SECRET
func NewRouter(h *Handlers, cronSecret string, logger *logrus.Entry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Page)
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/phase", h.GetPhase)
		r.Get("/reminders/preview", h.PreviewReminder)
		r.Post("/subscribers/{externalID}/pause", h.PauseSubscriber)
		r.Post("/subscribers/{externalID}/resume", h.ResumeSubscriber)
	})

	r.Group(func(r chi.Router) {
		r.Use(CronAuth(cronSecret, logger))
		r.Get("/api/cron/notify", h.TriggerNotify)
		r.Post("/api/cron/notify", h.TriggerNotify)
	})

	return r
}
