package routers

import (
	"fmt"

	"github.com/grandguard/budget-service/internal/di"
	http2 "github.com/grandguard/budget-service/internal/infrastructure/api/http"
	"github.com/grandguard/budget-service/internal/infrastructure/api/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(container *di.Container) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)

	router.Handle("/metrics", promhttp.Handler())

	// Set up v1 routes with a path prefix
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewares.UserValidationMiddleware(container.UserInteractor))

		r.Route("/awards", func(r chi.Router) {
			ah := container.AwardHandler
			r.Post("/", ah.Create)
			r.Get("/", ah.List)

			r.Route(fmt.Sprintf("/{%s}", http2.AwardIDParam), func(r chi.Router) {
				r.Get("/", ah.Get)
				r.Put("/", ah.Update)
				r.Delete("/", ah.Delete)
				r.Post("/submit", ah.Submit)
				r.Post("/approve", ah.Approve)
				r.Post("/decline", ah.Decline)

				bh := container.BudgetHandler
				r.Get("/budget", bh.Status)
				r.Post("/budget/recompute", bh.Recompute)

				th := container.TransactionHandler
				r.Post("/transactions", th.Create)
				r.Get("/transactions", th.List)

				sh := container.SubawardHandler
				r.Post("/subawards", sh.Create)
				r.Get("/subawards", sh.List)
			})
		})

		r.Route(fmt.Sprintf("/transactions/{%s}", http2.TransactionIDParam), func(r chi.Router) {
			th := container.TransactionHandler
			r.Post("/approve", th.Approve)
			r.Post("/pay", th.Pay)
			r.Post("/decline", th.Decline)
		})

		r.Route(fmt.Sprintf("/subawards/{%s}", http2.SubawardIDParam), func(r chi.Router) {
			sh := container.SubawardHandler
			r.Post("/approve", sh.Approve)
			r.Post("/decline", sh.Decline)
		})
	})

	return router
}
