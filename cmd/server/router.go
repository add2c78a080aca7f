package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/entretech/wanotify/internal/handler"
)

func setupRouter(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/receive", h.ReceiveWebhook)
		r.Get("/status", h.WebhookStatus)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/messages", func(r chi.Router) {
			r.Post("/", h.SendMessage)
			r.Get("/", h.ListMessages)
			r.Get("/stats", h.GetMessageStats)
			r.Get("/{id}", h.GetMessage)
			r.Post("/{id}/cancel", h.CancelMessage)
			r.Post("/{id}/retry", h.RetryMessage)
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Post("/", h.SendApproval)
			r.Get("/", h.ListApprovals)
			r.Get("/{id}", h.GetApproval)
		})

		r.Post("/events", h.HandleEvent)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.ListRules)
			r.Post("/", h.SaveRule)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
			r.Post("/test-connection", h.TestConnection)
			r.Post("/configure-webhook", h.ConfigureWebhook)
		})

		r.Get("/groups", h.GetGroups)

		r.Route("/scheduler", func(r chi.Router) {
			r.Post("/start", h.StartScheduler)
			r.Post("/stop", h.StopScheduler)
		})
	})

	return r
}
