package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the card and review endpoints on r. The caller
// chooses the prefix and the middleware.
func RegisterRoutes(r chi.Router, cards *CardHandler, reviews *ReviewHandler) {
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", cards.ListCards)
		r.Post("/", cards.CreateCard)
		r.Post("/import", cards.ImportCards)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cards.GetCard)
			r.Put("/", cards.EditCard)
			r.Delete("/", cards.DeleteCard)
			r.Post("/postpone", cards.PostponeCard)
			r.Get("/history", reviews.CardHistory)
		})
	})

	r.Route("/review", func(r chi.Router) {
		r.Get("/queue", reviews.GetQueue)
		r.Post("/{id}/grade", reviews.GradeCard)
		r.Post("/{id}/spelling", reviews.CheckSpelling)
		r.Get("/log", reviews.GetLog)
		r.Post("/log/sync", reviews.SyncLog)
	})

	r.Get("/stats", reviews.GetStats)
}
